// rubik is a terminal and network front end for the cube simulator.
//
// Usage:
//
//	rubik play               - Play in the terminal
//	rubik serve              - Serve cubes over WebSocket and SSH
//	rubik connect            - Drive the cube from a GoCube over Bluetooth
//	rubik scramble           - Print a random scramble
//	rubik apply <moves>      - Apply moves to a solved cube and print it
//	rubik optimize <moves>   - Simplify a move sequence
//	rubik solves             - Show recorded solves
//	rubik replay <file>      - Replay a journal file
package main

import "github.com/SeamusWaldron/rubik/internal/cli"

func main() {
	cli.Execute()
}
