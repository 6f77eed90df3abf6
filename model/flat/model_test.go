package flat

import (
	"testing"

	"github.com/samkatt/fba-pomdp-go/randutil"
)

func newTestModel() *Model {
	m := New(2, 2, 2)
	for s := 0; s < 2; s++ {
		for a := 0; a < 2; a++ {
			for sNext := 0; sNext < 2; sNext++ {
				m.SetCountT(s, a, sNext, 1)
			}
			for o := 0; o < 2; o++ {
				m.SetCountO(a, s, o, 1)
			}
		}
	}
	return m
}

func TestIncrementCountsCopyOnWrite(t *testing.T) {
	base := newTestModel()
	shared := base.Share()

	if base.CountT(0, 0, 1) != shared.CountT(0, 0, 1) {
		t.Fatalf("shared model should alias base's counts before any write")
	}

	shared.IncrementCounts(0, 0, 1, 1, 5)

	if base.CountT(0, 0, 1) != 1 {
		t.Fatalf("base model's count should be unaffected by shared's write, got %v",
			base.CountT(0, 0, 1))
	}
	if shared.CountT(0, 0, 1) != 6 {
		t.Fatalf("shared model's count should reflect its own write, got %v",
			shared.CountT(0, 0, 1))
	}
}

func TestRowSumsPositive(t *testing.T) {
	m := newTestModel()
	for s := 0; s < 2; s++ {
		for a := 0; a < 2; a++ {
			if m.RowSumT(s, a) <= 0 {
				t.Fatalf("row T[%d,%d,*] must sum > 0", s, a)
			}
		}
	}
}

func TestSampleStateIndexDeterministic(t *testing.T) {
	m := New(2, 1, 1)
	m.SetCountT(0, 0, 0, 0)
	m.SetCountT(0, 0, 1, 100)
	rng := randutil.New("deterministic")
	for i := 0; i < 20; i++ {
		if got := m.SampleStateIndex(0, 0, Expected, rng); got != 1 {
			t.Fatalf("expected index 1 with near-all mass there, got %d", got)
		}
	}
}
