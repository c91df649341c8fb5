package scheme

import "errors"

// Construction-time validation errors. All of them are fatal configuration
// errors: a scheme that fails to build can never be stepped.
var (
	// ErrSingular indicates a moment matrix that cannot be inverted. The
	// chosen polynomials do not form a basis on the velocity set.
	ErrSingular = errors.New("scheme: moment matrix is singular")

	// ErrSize indicates an entry list whose length differs from the number
	// of velocities of its stencil.
	ErrSize = errors.New("scheme: entry size does not match stencil size")

	// ErrConservedIndex indicates a conserved-moment index outside [0, q)
	// or listed twice.
	ErrConservedIndex = errors.New("scheme: invalid conserved moment index")

	// ErrConservedRelaxed indicates a conserved moment with a nonzero
	// relaxation parameter, or a relaxed moment declared conserved.
	ErrConservedRelaxed = errors.New("scheme: conserved moments must have zero relaxation")

	// ErrMissingEquilibrium indicates a relaxed moment without an
	// equilibrium function.
	ErrMissingEquilibrium = errors.New("scheme: relaxed moment has no equilibrium")

	// ErrConservedEquilibrium indicates an equilibrium supplied for a
	// conserved moment. Conserved moments pass through collision unchanged,
	// their equilibrium is the moment itself.
	ErrConservedEquilibrium = errors.New("scheme: conserved moment carries an equilibrium")

	// ErrScaling indicates a non-positive mesh spacing or time step.
	ErrScaling = errors.New("scheme: dx and dt must be positive")
)
