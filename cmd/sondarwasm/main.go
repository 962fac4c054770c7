//go:build js && wasm

// Command sondarwasm exposes landmark hash generation to a browser so a
// client can fingerprint audio locally. The server's /v1/identify endpoint
// takes an uploaded audio file; it does not accept precomputed hashes.
package main

import (
	"fmt"
	"syscall/js"

	"github.com/sondar/sondar/pkg/sonar"
)

const (
	errNone = iota
	errInvalidArgs
	errFingerprintFailed
)

func main() {
	done := make(chan struct{})
	js.Global().Set("sonarFingerprint", js.FuncOf(fingerprintJS))
	js.Global().Get("console").Call("log", "sonar wasm module ready")
	<-done
}

// fingerprintJS(samples, sampleRate) -> {error, data}
// samples is a JS array of floats in [-1, 1]; data is an array of
// {hash, anchorTime} pairs on success.
func fingerprintJS(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResponse(errInvalidArgs, "expected 2 arguments: samples, sampleRate")
	}
	samplesJS := args[0]
	sampleRate := args[1].Int()

	if samplesJS.Type() != js.TypeObject || sampleRate <= 0 {
		return errorResponse(errInvalidArgs, "invalid samples array or sample rate")
	}

	n := samplesJS.Length()
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		samples[i] = float32(samplesJS.Index(i).Float())
	}

	probes, err := sonar.GenerateQueryHashes(samples, sampleRate)
	if err != nil {
		return errorResponse(errFingerprintFailed, fmt.Sprintf("fingerprinting failed: %v", err))
	}

	result := js.Global().Get("Array").New()
	for i, p := range probes {
		obj := js.Global().Get("Object").New()
		obj.Set("hash", p.Hash)
		obj.Set("anchorTime", p.AnchorTime)
		result.SetIndex(i, obj)
	}

	out := js.Global().Get("Object").New()
	out.Set("error", errNone)
	out.Set("data", result)
	return out
}

func errorResponse(code int, message string) js.Value {
	out := js.Global().Get("Object").New()
	out.Set("error", code)
	out.Set("data", message)
	return out
}
