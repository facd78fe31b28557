package ecs

// Shared component types for the test suite.

type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Value int
}

type Tag struct{}
