// Package stat defines the character rules schema: stat identities, stat
// categories, modifier sources, and the character sheet that binds them to an
// injected calculator and validator.
package stat

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind distinguishes the variants of a Stat.
type Kind int

const (
	// KindAttribute is a base attribute identified by its short code (e.g. "MU").
	KindAttribute Kind = iota
	// KindAbility is a skill or combat technique governed by one or more attributes.
	KindAbility
	// KindComposite is a read-only value derived from an ability (e.g. "Dolche - Attacke").
	KindComposite
)

// String returns the lowercase kind label.
func (k Kind) String() string {
	switch k {
	case KindAttribute:
		return "attribute"
	case KindAbility:
		return "ability"
	case KindComposite:
		return "composite"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Key is the identity of a Stat. Raw values are indexed by Key.
//
// ID is the short code for attributes and the NFC-normalized display name for
// abilities and composites. Display payload never takes part in identity.
type Key struct {
	Kind Kind
	ID   string
}

// String returns "kind:id".
func (k Key) String() string {
	return k.Kind.String() + ":" + k.ID
}

// AttributeKey returns the identity of the attribute with the given short code.
func AttributeKey(code string) Key {
	return Key{Kind: KindAttribute, ID: code}
}

// AbilityKey returns the identity of the ability with the given display name.
func AbilityKey(name string) Key {
	return Key{Kind: KindAbility, ID: normalize(name)}
}

// CompositeKey returns the identity of the composite stat with the given name.
func CompositeKey(name string) Key {
	return Key{Kind: KindComposite, ID: normalize(name)}
}

func normalize(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Stat is a tagged union over attributes, abilities, and composites.
//
// Name is the display name for every kind. Code is set only for attributes;
// Checks only for abilities.
type Stat struct {
	Kind   Kind
	Name   string
	Code   string
	Checks []string
}

// Attribute returns an attribute stat.
func Attribute(name, code string) Stat {
	return Stat{Kind: KindAttribute, Name: name, Code: code}
}

// Ability returns an ability stat governed by the given attribute codes, in order.
func Ability(name string, checks ...string) Stat {
	cp := make([]string, len(checks))
	copy(cp, checks)
	return Stat{Kind: KindAbility, Name: name, Checks: cp}
}

// Composite returns a read-only derived stat.
func Composite(name string) Stat {
	return Stat{Kind: KindComposite, Name: name}
}

// Key returns the identity of s.
func (s Stat) Key() Key {
	switch s.Kind {
	case KindAttribute:
		return AttributeKey(s.Code)
	case KindAbility:
		return AbilityKey(s.Name)
	default:
		return CompositeKey(s.Name)
	}
}

// Is reports whether s and o share an identity.
func (s Stat) Is(o Stat) bool {
	return s.Key() == o.Key()
}

// Label returns the text shown next to the stat: "Name (CODE)" for attributes
// and "Name (A/B/C)" for abilities.
func (s Stat) Label() string {
	switch s.Kind {
	case KindAttribute:
		return fmt.Sprintf("%s (%s)", s.Name, s.Code)
	case KindAbility:
		if len(s.Checks) == 0 {
			return s.Name
		}
		return fmt.Sprintf("%s (%s)", s.Name, strings.Join(s.Checks, "/"))
	default:
		return s.Name
	}
}
