// Package domain contains the value objects shared by the signing engine and its adapters.
package domain

import (
	"fmt"
	"strings"
)

// Platform classifies the processor architecture a module targets.
type Platform uint8

const (
	// PlatformAnyCPU runs on any architecture.
	PlatformAnyCPU Platform = iota
	// PlatformX86 is restricted to 32-bit processes.
	PlatformX86
	// PlatformX64 is restricted to 64-bit processes.
	PlatformX64
	// PlatformAnyCPU32BitPreferred runs anywhere but prefers a 32-bit process.
	PlatformAnyCPU32BitPreferred
)

// String returns the conventional platform name.
func (p Platform) String() string {
	switch p {
	case PlatformX86:
		return "x86"
	case PlatformX64:
		return "x64"
	case PlatformAnyCPU32BitPreferred:
		return "anycpu32bitpreferred"
	default:
		return "anycpu"
	}
}

// ParsePlatform converts a platform name to a Platform.
// Unknown names are reported as an error.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "anycpu", "msil":
		return PlatformAnyCPU, nil
	case "x86":
		return PlatformX86, nil
	case "x64", "amd64":
		return PlatformX64, nil
	case "anycpu32bitpreferred":
		return PlatformAnyCPU32BitPreferred, nil
	default:
		return PlatformAnyCPU, fmt.Errorf("unknown platform %q", s)
	}
}

// SigningState describes the strong name state of a module.
type SigningState uint8

const (
	// NotSigned modules carry no public key.
	NotSigned SigningState = iota
	// DelaySigned modules carry a public key but no valid signature.
	DelaySigned
	// Signed modules carry a public key and a valid signature.
	Signed
)

// String returns a human readable signing state.
func (s SigningState) String() string {
	switch s {
	case Signed:
		return "signed"
	case DelaySigned:
		return "delay-signed"
	default:
		return "not signed"
	}
}

// AssemblyIdentity is an immutable snapshot of a module's identity,
// derived from its metadata handle at the time of the call.
type AssemblyIdentity struct {
	Path           string
	Name           string
	Version        string
	RuntimeVersion string
	Platform       Platform
	ILOnly         bool
	Signing        SigningState
	PublicKeyToken PublicKeyToken
}

// IsSigned reports whether the module carries a valid strong name signature.
func (a AssemblyIdentity) IsSigned() bool {
	return a.Signing == Signed
}

// FullName renders the identity in the usual display form,
// e.g. "Core, Version=1.0.0.0, PublicKeyToken=null".
func (a AssemblyIdentity) FullName() string {
	return fmt.Sprintf("%s, Version=%s, PublicKeyToken=%s", a.Name, a.Version, a.PublicKeyToken)
}
