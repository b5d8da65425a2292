package domain

import (
	"errors"
	"fmt"
)

// ActorType is the canonical category of the requesting party.
// It drives the discount table and approval-requirement rules.
type ActorType string

const (
	ActorPrivatePerson    ActorType = "private-person"
	ActorLagForeninger    ActorType = "lag-foreninger"
	ActorParaply          ActorType = "paraply"
	ActorPrivateFirma     ActorType = "private-firma"
	ActorKommunaleEnheter ActorType = "kommunale-enheter"
)

// ErrUnknownActorType возвращается при неизвестном типе заявителя
var ErrUnknownActorType = errors.New("domain: unknown actor type")

// legacyActorAliases maps the presentation-layer naming scheme onto the
// canonical enumeration. The aliases exist only for backwards compatible
// input; the discount table is defined against canonical values only.
var legacyActorAliases = map[string]ActorType{
	"private":   ActorPrivatePerson,
	"nonprofit": ActorLagForeninger,
	"business":  ActorPrivateFirma,
	"youth":     ActorLagForeninger,
	"senior":    ActorPrivatePerson,
}

// NormalizeActorType resolves a raw actor type string (canonical or legacy
// alias) into the canonical ActorType
func NormalizeActorType(raw string) (ActorType, error) {
	switch ActorType(raw) {
	case ActorPrivatePerson, ActorLagForeninger, ActorParaply, ActorPrivateFirma, ActorKommunaleEnheter:
		return ActorType(raw), nil
	}

	if canonical, ok := legacyActorAliases[raw]; ok {
		return canonical, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownActorType, raw)
}
