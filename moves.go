package rubik

// Predefined moves for convenience.
//
// Example:
//
//	cube.Apply(rubik.R, rubik.U, rubik.RPrime, rubik.UPrime)
var (
	R      = Move{Face: FaceR, Turn: CW}
	RPrime = Move{Face: FaceR, Turn: CCW}

	L      = Move{Face: FaceL, Turn: CW}
	LPrime = Move{Face: FaceL, Turn: CCW}

	U      = Move{Face: FaceU, Turn: CW}
	UPrime = Move{Face: FaceU, Turn: CCW}

	D      = Move{Face: FaceD, Turn: CW}
	DPrime = Move{Face: FaceD, Turn: CCW}

	F      = Move{Face: FaceF, Turn: CW}
	FPrime = Move{Face: FaceF, Turn: CCW}

	B      = Move{Face: FaceB, Turn: CW}
	BPrime = Move{Face: FaceB, Turn: CCW}
)

// Sexy move: R U R' U'. Six repetitions return the cube to where it started.
var SexyMove = []Move{R, U, RPrime, UPrime}

// Inverse sexy move: U R U' R'
var InverseSexyMove = []Move{U, R, UPrime, RPrime}

// Sledgehammer: R' F R F'
var SledgeHammer = []Move{RPrime, F, R, FPrime}

// T-perm with its half turns expanded.
var TPerm = []Move{R, U, RPrime, UPrime, RPrime, F, R, R, UPrime, RPrime, UPrime, R, U, RPrime, FPrime}
