package domain

import "strings"

// FriendAttributeType is the attribute type of a friend-access declaration.
const FriendAttributeType = "System.Runtime.CompilerServices.InternalsVisibleToAttribute"

// Reference is an outgoing reference from one module to another.
type Reference struct {
	Name           string
	Version        string
	Culture        string
	PublicKeyToken PublicKeyToken
	// Location is the resolved file of the referenced module, empty when it
	// could not be found in any probing directory.
	Location string
}

// FullName renders the reference in display form.
func (r Reference) FullName() string {
	return AssemblyIdentity{Name: r.Name, Version: r.Version, PublicKeyToken: r.PublicKeyToken}.FullName()
}

// Attribute is a custom attribute applied to a module.
type Attribute struct {
	Type string
	Args []string
}

// IsFriendDeclaration reports whether the attribute grants friend access to another module.
func (a Attribute) IsFriendDeclaration() bool {
	return a.Type == FriendAttributeType
}

// HasPublicKey reports whether a friend declaration names the friend's public key.
func (a Attribute) HasPublicKey() bool {
	for _, arg := range a.Args {
		if strings.Contains(strings.ToLower(arg), "publickey=") {
			return true
		}
	}
	return false
}

// RetargetRule describes how references to one module must be rewritten after
// that module received a new strong identity.
type RetargetRule struct {
	// Name is the simple name of the re-signed module.
	Name string
	// From is the token references carried before signing.
	From PublicKeyToken
	// AnyFrom matches every reference whose token differs from To, regardless of From.
	AnyFrom bool
	// Version and To form the new identity written into matching references.
	Version string
	To      PublicKeyToken
}

// RetargetTo builds the rule that moves references from the previous identity to the current one.
func RetargetTo(previous, current AssemblyIdentity) RetargetRule {
	return RetargetRule{
		Name:    current.Name,
		From:    previous.PublicKeyToken,
		Version: current.Version,
		To:      current.PublicKeyToken,
	}
}

// Matches reports whether ref must be rewritten by the rule.
func (r RetargetRule) Matches(ref Reference) bool {
	if !strings.EqualFold(ref.Name, r.Name) {
		return false
	}
	if ref.PublicKeyToken == r.To && ref.Version == r.Version {
		return false
	}
	if r.AnyFrom {
		return true
	}
	return ref.PublicKeyToken == r.From
}

// Apply returns ref rewritten to the rule's target identity.
func (r RetargetRule) Apply(ref Reference) Reference {
	ref.Version = r.Version
	ref.PublicKeyToken = r.To
	return ref
}
