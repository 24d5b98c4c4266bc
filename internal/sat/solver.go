package sat

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// errDecisionLevelNotZero is returned by operations (AddClause) that are
// only well-defined at the root decision level.
var errDecisionLevelNotZero = errors.New("sat: operation requires decision level 0")

// Status is the outcome of a call to Solve.
type Status int8

const (
	StatusUnknown Status = iota
	StatusSAT
	StatusUNSAT
)

func (s Status) String() string {
	switch s {
	case StatusSAT:
		return "SAT"
	case StatusUNSAT:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// Options configures a Solver. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// ClauseDecay and VariableDecay control the exponential decay of clause
	// and VSIDS activity respectively (spec.md §4.7).
	ClauseDecay   float64
	VariableDecay float64

	// PhaseSaving branches new decisions toward a variable's last assigned
	// value rather than always-positive (spec.md §4.7).
	PhaseSaving bool

	// RestartFirst is the base conflict budget multiplied by the Luby
	// sequence for each successive restart (spec.md §4.9).
	RestartFirst int

	// MaxLearntsInitialRatio and MaxLearntsFloor set the initial
	// too-many-learnts threshold: max(numConstraints/MaxLearntsInitialRatio,
	// MaxLearntsFloor). MaxLearntsGrowth is the fraction the threshold grows
	// by after each reduction (spec.md §4.10, §9).
	MaxLearntsInitialRatio int
	MaxLearntsFloor        int
	MaxLearntsGrowth       float64

	// ReduceWasteFraction triggers arena compaction once the fraction of
	// deleted-but-unreclaimed words exceeds this value (spec.md §4.10).
	ReduceWasteFraction float64

	// MaxConflicts stops Solve after this many total conflicts, returning
	// StatusUnknown. Zero or negative disables the limit.
	MaxConflicts int64

	// Timeout stops Solve after this much wall-clock time, returning
	// StatusUnknown. Zero or negative disables the limit; a context deadline
	// passed to Solve is independently honored either way.
	Timeout time.Duration

	// Logger receives periodic search-progress entries. A nil Logger
	// disables progress logging entirely.
	Logger *logrus.Logger
}

// DefaultOptions mirrors the teacher's tuning constants, expanded with the
// reduction-schedule and restart parameters spec.md leaves as open
// questions (resolved in DESIGN.md).
var DefaultOptions = Options{
	ClauseDecay:            0.999,
	VariableDecay:          0.95,
	PhaseSaving:            true,
	RestartFirst:           100,
	MaxLearntsInitialRatio: 3,
	MaxLearntsFloor:        256,
	MaxLearntsGrowth:       0.05,
	ReduceWasteFraction:    0.2,
	MaxConflicts:           -1,
	Timeout:                -1,
}

// Solver is a CDCL SAT solver: two-watched-literal BCP, 1-UIP conflict
// analysis with self-subsumption minimization, VSIDS branching, Luby
// restarts, and lazy clause-database maintenance over an arena of packed
// clauses (spec.md §1–§4).
type Solver struct {
	opts Options

	arena   *arena
	clauses []CRef
	learnts []CRef

	clauseInc float64

	// maxLearntsLimit is the current too-many-learnts threshold (spec.md
	// §4.10/§9): initialized in Solve and grown by
	// Options.MaxLearntsGrowth after every ReduceLearnts pass.
	maxLearntsLimit float64

	watches *watchIndex
	heap    *varHeap
	trail   *trail

	unsat bool

	TotalConflicts  int64
	TotalRestarts   int64
	TotalIterations int64
	startTime       time.Time

	Models [][]bool

	seenVar *ResetSet

	tmpLearnt   []Literal
	tmpMinStack []Literal
}

// NewSolver returns a Solver configured with opts.
func NewSolver(opts Options) *Solver {
	return &Solver{
		opts:      opts,
		arena:     newArena(),
		clauseInc: 1,
		watches:   newWatchIndex(),
		heap:      newVarHeap(opts.VariableDecay),
		trail:     newTrail(),
		seenVar:   &ResetSet{},
	}
}

// NewDefaultSolver returns a Solver configured with DefaultOptions.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions)
}

// NumVariables returns the number of variables created so far.
func (s *Solver) NumVariables() int {
	return len(s.trail.level)
}

// NumAssigns returns the number of literals currently on the trail.
func (s *Solver) NumAssigns() int {
	return len(s.trail.lits)
}

// NumConstraints returns the number of original (non-learnt) clauses.
func (s *Solver) NumConstraints() int {
	return len(s.clauses)
}

// NumLearnts returns the number of learnt clauses.
func (s *Solver) NumLearnts() int {
	return len(s.learnts)
}

// VarValue returns the current value of variable v.
func (s *Solver) VarValue(v Var) LBool {
	return s.trail.value(v)
}

// AddVariable creates a fresh variable and returns it.
func (s *Solver) AddVariable() Var {
	v := Var(s.NumVariables())
	s.trail.growTo()
	s.seenVar.Expand()
	s.watches.growTo(2 * (int(v) + 1))
	s.heap.growTo(v)
	s.heap.Push(v)
	return v
}

func (s *Solver) decisionLevel() int {
	return s.trail.decisionLevel()
}

func (s *Solver) shouldStop() bool {
	if s.opts.MaxConflicts > 0 && s.TotalConflicts >= s.opts.MaxConflicts {
		return true
	}
	if s.opts.Timeout > 0 && time.Since(s.startTime) >= s.opts.Timeout {
		return true
	}
	return false
}

// pickBranchLiteral pops undefined variables off the VSIDS heap until it
// finds one still unassigned, returning the literal oriented by the
// variable's saved polarity (or positive, if phase saving is off or the
// variable has never been assigned). Returns (NoLiteral, false) once every
// variable is assigned -- the current trail is then a model.
func (s *Solver) pickBranchLiteral() (Literal, bool) {
	for {
		v, ok := s.heap.Pop()
		if !ok {
			return NoLiteral, false
		}
		if s.trail.value(v) != Unknown {
			continue
		}
		if s.opts.PhaseSaving && s.trail.polarity[v] == False {
			return NegativeLiteral(v), true
		}
		return PositiveLiteral(v), true
	}
}

func (s *Solver) saveModel() {
	model := make([]bool, s.NumVariables())
	for v := range model {
		model[v] = s.trail.value(Var(v)) == True
	}
	s.Models = append(s.Models, model)
}

// search runs CDCL up to a conflict budget, implementing spec.md §4.8's
// search driver exactly. It returns StatusSAT, StatusUNSAT, or
// StatusUnknown (budget exhausted or cancelled); in every case control
// returns to Solve with the trail in a consistent state.
func (s *Solver) search(ctx context.Context, conflictBudget int64) Status {
	if s.unsat {
		return StatusUNSAT
	}

	s.TotalRestarts++
	var conflicts int64

	for {
		if ctx.Err() != nil || s.shouldStop() {
			s.trail.cancelUntil(0, s.heap)
			return StatusUnknown
		}
		s.TotalIterations++

		if confl := s.propagate(); confl != CRefUndef {
			s.TotalConflicts++
			conflicts++

			if s.decisionLevel() == 0 {
				s.unsat = true
				return StatusUNSAT
			}

			learnt, backtrackLevel := s.analyze(confl)
			s.trail.cancelUntil(backtrackLevel, s.heap)
			s.learn(learnt)

			s.heap.Decay()
			s.decayClauseActivity()

			if conflicts >= conflictBudget {
				s.trail.cancelUntil(0, s.heap)
				return StatusUnknown
			}
			continue
		}

		// No conflict.
		if s.decisionLevel() == 0 {
			if !s.Simplify() {
				return StatusUNSAT
			}
		}
		if float64(len(s.learnts)) >= s.maxLearntsLimit {
			s.ReduceLearnts()
		}

		lit, ok := s.pickBranchLiteral()
		if !ok {
			s.saveModel()
			s.trail.cancelUntil(0, s.heap)
			return StatusSAT
		}

		s.trail.newDecisionLevel()
		s.trail.enqueue(lit, CRefUndef)

		if s.opts.Logger != nil && s.TotalIterations%10000 == 0 {
			s.logProgress()
		}
	}
}

// Solve runs the outer Luby-driven restart loop (spec.md §4.8/§4.9) until
// SAT or UNSAT is established, the context is cancelled, or a configured
// stop condition is hit. The solver always returns to decision level 0
// before Solve returns, whatever the outcome.
func (s *Solver) Solve(ctx context.Context) Status {
	s.startTime = time.Now()

	restartFirst := s.opts.RestartFirst
	if restartFirst <= 0 {
		restartFirst = 100
	}

	ratio := s.opts.MaxLearntsInitialRatio
	if ratio <= 0 {
		ratio = 1
	}
	s.maxLearntsLimit = float64(s.NumConstraints() / ratio)
	if floor := float64(s.opts.MaxLearntsFloor); s.maxLearntsLimit < floor {
		s.maxLearntsLimit = floor
	}

	for i := 0; ; i++ {
		budget := int64(luby(i)) * int64(restartFirst)
		status := s.search(ctx, budget)
		if status != StatusUnknown {
			return status
		}
		if ctx.Err() != nil || s.shouldStop() {
			return StatusUnknown
		}
	}
}

func (s *Solver) logProgress() {
	s.opts.Logger.WithFields(logrus.Fields{
		"elapsed":    time.Since(s.startTime),
		"iterations": s.TotalIterations,
		"conflicts":  s.TotalConflicts,
		"restarts":   s.TotalRestarts,
		"learnts":    len(s.learnts),
	}).Info("search progress")
}
