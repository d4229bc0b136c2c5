// Command hexplan prints hex-grid facts (ring sizes, distances, neighbor steps) for
// debugging position and anchor math while authoring a composition document.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mhus/nimbus-world-sub007/internal/hexmath"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "ring":
		err = runRing(os.Args[2:])
	case "distance":
		err = runDistance(os.Args[2:])
	case "step":
		err = runStep(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runRing(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: hexplan ring <radius>")
	}
	radius, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	ring := hexmath.Origin.Ring(radius)
	fmt.Printf("ring %d: %d cells (expected 6*r = %d)\n", radius, len(ring), 6*radius)
	for _, h := range ring {
		fmt.Printf("  %s\n", h)
	}
	return nil
}

func runDistance(args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: hexplan distance <q1> <r1> <q2> <r2>")
	}
	a, err := parseHex(args[0], args[1])
	if err != nil {
		return err
	}
	b, err := parseHex(args[2], args[3])
	if err != nil {
		return err
	}
	fmt.Printf("distance(%s, %s) = %d\n", a, b, a.Distance(b))
	return nil
}

func runStep(args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: hexplan step <q> <r> <side> <distance>")
	}
	origin, err := parseHex(args[0], args[1])
	if err != nil {
		return err
	}
	side, ok := hexmath.ParseSide(args[2])
	if !ok {
		return fmt.Errorf("unknown side %q (expected one of NORTH_EAST, EAST, SOUTH_EAST, SOUTH_WEST, WEST, NORTH_WEST)", args[2])
	}
	distance, err := strconv.Atoi(args[3])
	if err != nil {
		return err
	}
	result := hexmath.Step(origin, side, distance)
	fmt.Printf("step(%s, %s, %d) = %s\n", origin, side, distance, result)
	return nil
}

func parseHex(qArg, rArg string) (hexmath.Hex, error) {
	q, err := strconv.Atoi(qArg)
	if err != nil {
		return hexmath.Hex{}, err
	}
	r, err := strconv.Atoi(rArg)
	if err != nil {
		return hexmath.Hex{}, err
	}
	return hexmath.New(q, r), nil
}

func printUsage() {
	fmt.Println("Usage: hexplan <ring|distance|step> ...")
	fmt.Println("  hexplan ring <radius>")
	fmt.Println("  hexplan distance <q1> <r1> <q2> <r2>")
	fmt.Println("  hexplan step <q> <r> <side> <distance>")
}
