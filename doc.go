/*
Package clcsim provides the tools to model the start-up configuration of a
microcontroller's configurable logic fabric and to run the configured fabric
as a cycle based simulation.

The root package is a naive hardware simulator and an API to compose basic
components (logic gates, counters, latches) into more complex ones. Parts are
mounted into sockets, wired by name with connection strings like
"a=w0, out=w1", and updated every simulation step by worker goroutines.

The device model lives in sub-packages: reg is the register file that sits at
the hardware-access boundary, periph/... holds one typed configuration model
per peripheral (oscillator, timers, logic cell, pin routing), firmware runs
the power-up configuration sequence and sim decodes a configured register
file into a running circuit.
*/
package clcsim
