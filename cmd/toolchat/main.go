// Command toolchat talks to Claude with local tools attached.
package main

func main() {
	Execute()
}
