// Package equilibrium couples several single-class equilibrium solvers into
// a heterogeneous (multi-class) equilibrium.
//
// Every class shares the same links but perceives its own cost. A Coupler
// repeatedly freezes the other classes' flows, solves one class against
// them, and moves on. Two update schemes are available:
//
//   - SchemeGaussSeidel (default): classes are solved in order, each one
//     seeing the flows the previous classes produced in the same cycle.
//   - SchemeJacobi: every class is solved concurrently against the flows of
//     the previous cycle. Plain Jacobi best responses can oscillate when
//     both classes are sensitive to the same links; prefer Gauss-Seidel
//     unless one class dominates its route choice.
//
// All classes start from zero flow. From the second cycle on each class is
// warm-started from its own previous flow. The run terminates when every
// class met its own stopping criterion in the last cycle and the relative L1
// change of the combined flow is below StopCycle. When MaxCycles is
// exhausted the Result is still returned, together with an error wrapping
// frankwolfe.ErrNonConvergence.
//
// Demand splitting between classes is done by the caller, typically with
// network.SplitDemands.
package equilibrium
