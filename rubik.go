// Package rubik models a 3x3x3 Rubik's Cube as a grid of 27 pieces and a
// sticker state keyed by face, row and column, and applies the twelve
// quarter face turns to both.
//
// # Quick Start
//
// Drive a cube through an Executor, which validates moves, keeps the move
// history and reports the solved status after each commit:
//
//	ex := rubik.NewExecutor()
//	ex.OnMove(func(ev rubik.MoveEvent) {
//	    fmt.Println(ev.Move, ev.MoveCount, ev.Solved)
//	})
//
//	res, err := ex.ApplyMove("R")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("Solved:", res.Solved)
//
// # Standalone Cube
//
// The Cube type can be used on its own:
//
//	c := rubik.NewCube()
//	c.Apply(rubik.R, rubik.U, rubik.RPrime, rubik.UPrime)
//	fmt.Println(c.State())
//
// # Notation
//
// Only the twelve single quarter turns are accepted:
//
//	R R' L L' U U' D D' F F' B B'
//
// Half turns such as R2 must be expanded by the caller (see ExpandMoves).
//
// # Sticker Layout
//
// Each face has 9 stickers indexed row*3+col as seen when looking straight
// at that face with Up on top (Front on top for Up and Down views):
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// # Solving Phases
//
// The library detects the standard layer-by-layer phases:
//
//  1. White Cross
//  2. First Layer
//  3. Second Layer
//  4. Yellow Cross
//  5. Yellow Corners Positioned
//  6. Yellow Corners Oriented
//  7. Solved
package rubik
