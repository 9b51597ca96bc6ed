// Package sim simulates a two dimensional moon lander driven by a control
// program from package ast.
//
// A frame applies one Command to a SensorData state under the physics of a
// World. Run repeats frames until the lander touches the ground or the
// world's frame limit is reached, recording every state in a GameTrace.
package sim
