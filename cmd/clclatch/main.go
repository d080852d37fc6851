// Command clclatch is the device firmware: it configures the clock, both
// timers, the logic cell and the output pin, then idles forever.
package main

import "github.com/db47h/clcsim/firmware"

func main() {
	firmware.Main()
}
