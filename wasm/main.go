//go:build wasm

package main

import (
	"syscall/js"
)

func main() {
	js.Global().Set("StreamsedNewSession", js.FuncOf(newSession))
	js.Global().Set("StreamsedReplace", js.FuncOf(replace))
	js.Global().Set("StreamsedCloseSession", js.FuncOf(closeSession))
	js.Global().Set("StreamsedGetBuiltinSets", js.FuncOf(getBuiltinSets))

	<-make(chan struct{})
}
