package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBadRequest            = errors.New("bad request")
	ErrInvalidNode           = fmt.Errorf("%w: node does not exist", ErrBadRequest)
	ErrInvalidEdge           = errors.New("invalid edge")
	ErrUnknownBuildType      = errors.New("unknown build type")
	ErrInsufficientResources = errors.New("not enough resources")
)

// InsufficientResourcesError reports a failed build along with what the
// player held at the time.
type InsufficientResourcesError struct {
	Player int
	Have   Resources
	Need   Resources
}

func (e *InsufficientResourcesError) Error() string {
	var short []string
	for _, res := range CountableResources {
		if need, ok := e.Need[res]; ok && e.Have[res] < need {
			short = append(short, fmt.Sprintf("%s %d/%d", res, e.Have[res], need))
		}
	}
	return fmt.Sprintf("%s: player %d short of %s", ErrInsufficientResources, e.Player, strings.Join(short, ", "))
}

func (e *InsufficientResourcesError) Is(target error) bool {
	return target == ErrInsufficientResources
}
