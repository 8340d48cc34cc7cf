// Package builder assembles small, deterministic road networks for tests,
// examples and the command-line scenarios.
//
// A network is composed from Constructors passed to BuildNetwork:
//
//	n, err := builder.BuildNetwork(
//		[]builder.BuilderOption{builder.WithVolume(0.5)},
//		builder.Diamond(10, 8),
//	)
//
// Every constructor allocates fresh node IDs, so several constructors in
// one call produce disjoint components sharing a single link index space.
// Link indices follow constructor order and, inside a constructor, the
// emission order documented on it.
//
// Available constructors:
//   - Corridor(capacity, fftt): one link, one OD pair.
//   - Diamond(highway, local): high-capacity link against a low-capacity detour.
//   - Braess(fftt): the five-link paradox network.
//   - Grid(rows, cols, fftt): bidirectional four-neighborhood grid.
//
// Options: WithVolume, WithCapacities and WithSeed. Invalid option values
// surface as ErrOptionViolation from BuildNetwork.
package builder
