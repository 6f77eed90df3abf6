package planner

import (
	"fmt"
	"math"
	"time"

	"github.com/samkatt/fba-pomdp-go/bastate"
	"github.com/samkatt/fba-pomdp-go/belief"
	"github.com/samkatt/fba-pomdp-go/domain"
	"github.com/samkatt/fba-pomdp-go/randutil"
)

// timeCheckInterval is how often (in simulations) a time-budgeted search
// checks the wall clock (spec.md §5: "checks the elapsed time every 100
// simulations and stops at the first check past the budget").
const timeCheckInterval = 100

// History is the minimal action/observation trajectory length the planner
// needs to compute its depth budget (spec.md §4.9 step 1). episode.History
// satisfies this without planner importing episode.
type History interface {
	Len() int
}

// Stats reports what one SelectAction call did, the Go equivalent of the
// original's VLOG(3)/VLOG(4) tree tracing (SPEC_FULL.md §6's supplemented
// "total_simulations"/tree-statistics feature).
type Stats struct {
	Simulations    int
	MaxTreeDepth   int
	TreeDepth      int
	NumActionNodes int
}

// POUCT is the Monte-Carlo tree search planner: UCB1 over augmented belief
// samples (spec.md §4.9).
type POUCT struct {
	n                int // fixed simulation budget; 0 when time-budgeted
	maxMillis        int // wall-clock budget in ms; 0 when count-budgeted
	maxDepth         int
	horizon          int
	explorationConst float64
	discount         float64
	ucbTable         []float64 // precomputed only when n-budgeted; nil otherwise

	stats Stats
}

// NewPOUCT validates and constructs a PO-UCT planner with a fixed
// per-decision simulation count (spec.md §6's simulation_amount budget).
// maxDepth of -1 adopts the horizon, matching spec.md §6's "-1 ⇒ adopt
// horizon" configuration rule.
func NewPOUCT(n, maxDepth, horizon int, explorationConst, discount float64) (*POUCT, error) {
	if n < 1 {
		return nil, fmt.Errorf("planner: cannot initiate PO-UCT with %d simulations, must be greater than 0", n)
	}
	p, err := newPOUCT(maxDepth, horizon, explorationConst, discount)
	if err != nil {
		return nil, err
	}
	p.n = n
	p.ucbTable = make([]float64, n*n)
	p.initUCBTable()
	return p, nil
}

// NewPOUCTTimed validates and constructs a PO-UCT planner with a
// wall-clock thinking budget (spec.md §6's milliseconds_thinking budget;
// spec.md §5's "checks elapsed time every 100 simulations" policy).
func NewPOUCTTimed(maxMillis, maxDepth, horizon int, explorationConst, discount float64) (*POUCT, error) {
	if maxMillis < 1 {
		return nil, fmt.Errorf("planner: cannot initiate PO-UCT with a %dms thinking budget, must be greater than 0", maxMillis)
	}
	p, err := newPOUCT(maxDepth, horizon, explorationConst, discount)
	if err != nil {
		return nil, err
	}
	p.maxMillis = maxMillis
	return p, nil
}

func newPOUCT(maxDepth, horizon int, explorationConst, discount float64) (*POUCT, error) {
	if maxDepth == -1 {
		maxDepth = horizon
	}
	if maxDepth < 0 {
		return nil, fmt.Errorf("planner: cannot initiate PO-UCT with %d max depth, must be greater or equal to 0", maxDepth)
	}
	if horizon <= 0 {
		return nil, fmt.Errorf("planner: cannot initiate PO-UCT with %d horizon, must be greater than 0", horizon)
	}

	return &POUCT{
		maxDepth:         maxDepth,
		horizon:          horizon,
		explorationConst: explorationConst,
		discount:         discount,
	}, nil
}

func (p *POUCT) initUCBTable() {
	for m := 0; m < p.n; m++ {
		p.ucbTable[m*p.n] = math.MaxFloat64
		for n := 1; n < p.n; n++ {
			p.ucbTable[m*p.n+n] = p.explorationConst * math.Sqrt(math.Log1p(float64(m))/float64(n))
		}
	}
}

// ucb returns the UCB1 exploration bonus for a child visited n times under
// a parent visited m times. The table is only valid when the simulation
// count was known ahead of time; time-budgeted searches compute it
// directly since the eventual visit counts aren't bounded in advance.
func (p *POUCT) ucb(m, n int) float64 {
	if n == 0 {
		return math.MaxFloat64
	}
	if p.ucbTable != nil {
		return p.ucbTable[m*p.n+n]
	}
	return p.explorationConst * math.Sqrt(math.Log1p(float64(m))/float64(n))
}

// Stats returns the statistics gathered by the most recent SelectAction
// call.
func (p *POUCT) Stats() Stats { return p.stats }

// SelectAction runs p.n simulations from fresh samples of bel and returns
// the action at the root with the greatest mean return (spec.md §4.9).
func (p *POUCT) SelectAction(dom domain.FactoredBADomain, bel belief.Belief, history History, rng *randutil.Rand) domain.Action {
	p.stats = Stats{}

	seed := bel.Sample(rng)
	legalActions := dom.LegalActions(seed.DomainState())
	root := newActionNode(legalActions)
	p.stats.NumActionNodes = 1

	maxDepth := p.horizon - history.Len()
	if p.maxDepth < maxDepth {
		maxDepth = p.maxDepth
	}
	if maxDepth < 0 {
		maxDepth = 0
	}
	p.stats.MaxTreeDepth = maxDepth

	if maxDepth == 0 {
		return legalActions[rng.Intn(len(legalActions))]
	}

	if p.maxMillis > 0 {
		p.runTimed(root, bel, dom, maxDepth, rng)
	} else {
		for i := 0; i < p.n; i++ {
			particle := bel.Sample(rng)
			s := dom.CopyState(particle.DomainState())
			p.traverseActionNode(root, particle, s, dom, maxDepth, rng)
		}
		p.stats.Simulations = p.n
	}

	best := p.selectChanceNode(root, false, rng)
	return best.Action
}

// runTimed drives simulations against root until the wall-clock thinking
// budget elapses, checking the clock every timeCheckInterval simulations
// (spec.md §5).
func (p *POUCT) runTimed(root *ActionNode, bel belief.Belief, dom domain.FactoredBADomain, maxDepth int, rng *randutil.Rand) {
	budget := time.Duration(p.maxMillis) * time.Millisecond
	start := time.Now()

	i := 0
	for {
		particle := bel.Sample(rng)
		s := dom.CopyState(particle.DomainState())
		p.traverseActionNode(root, particle, s, dom, maxDepth, rng)
		i++

		if i%timeCheckInterval == 0 && time.Since(start) >= budget {
			break
		}
	}
	p.stats.Simulations = i
}

func (p *POUCT) selectChanceNode(n *ActionNode, explore bool, rng *randutil.Rand) *ChanceNode {
	m := n.visits
	bestQ := -math.MaxFloat64
	var best []*ChanceNode

	for _, c := range n.children {
		q := c.q
		if explore {
			if c.visits == 0 {
				q = math.MaxFloat64
			} else {
				q += p.ucb(m, c.visits)
			}
		}
		if q >= bestQ {
			if q > bestQ {
				best = best[:0]
			}
			bestQ = q
			best = append(best, c)
		}
	}
	return best[rng.Intn(len(best))]
}

func (p *POUCT) traverseActionNode(n *ActionNode, particle bastate.State, s domain.State, dom domain.FactoredBADomain, depthToGo int, rng *randutil.Rand) float64 {
	depth := p.stats.MaxTreeDepth - depthToGo
	if depth > p.stats.TreeDepth {
		p.stats.TreeDepth = depth
	}

	if depthToGo == 0 {
		return 0
	}

	c := p.selectChanceNode(n, true, rng)
	ret := p.traverseChanceNode(c, particle, s, dom, depthToGo, rng)
	n.addVisit()
	return ret
}

func (p *POUCT) traverseChanceNode(c *ChanceNode, particle bastate.State, s domain.State, dom domain.FactoredBADomain, depthToGo int, rng *randutil.Rand) float64 {
	sNext, o, reward, terminal := belief.Step(dom, particle, s, c.Action, bastate.Regular, rng)

	var delayed float64
	if !terminal {
		if child, ok := c.child(o.Index()); ok {
			delayed = p.traverseActionNode(child, particle, sNext, dom, depthToGo-1, rng)
		} else {
			child := newActionNode(dom.LegalActions(sNext))
			c.addChild(o.Index(), child)
			p.stats.NumActionNodes++
			delayed = p.rollout(particle, sNext, dom, depthToGo-1, rng)
		}
	}

	ret := reward + p.discount*delayed
	c.addVisit(ret)
	return ret
}

// rollout runs up to depthToGo random-action steps (or until terminal)
// starting from s, accumulating discounted return against particle's own
// model (spec.md §4.9's "rollout").
func (p *POUCT) rollout(particle bastate.State, s domain.State, dom domain.FactoredBADomain, depthToGo int, rng *randutil.Rand) float64 {
	ret := 0.0
	discount := 1.0
	cur := s

	for depthToGo > 0 {
		a := dom.GenerateRandomAction(cur, rng)
		sNext, _, reward, terminal := belief.Step(dom, particle, cur, a, bastate.Regular, rng)

		ret += discount * reward
		discount *= p.discount
		cur = sNext
		depthToGo--

		if terminal {
			break
		}
	}
	return ret
}
