// Package directory resolves human-entered flat codes for the station.
// Lookups go through the gateway; when the gateway is unreachable the
// directory falls back to a synthetic copy of the society's fixed grid so
// guard intake keeps working offline.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/anshthakare16/sai-sillicon-valley/internal/api"
	"github.com/anshthakare16/sai-sillicon-valley/internal/client/gateway"
	"github.com/anshthakare16/sai-sillicon-valley/internal/common"
)

// The society grid: wings A-D, floors 1-4, units 1-4 per floor. The
// synthetic fallback accepts exactly the codes the seeded server
// directory holds.
var wings = []string{"A", "B", "C", "D"}

const (
	maxFloor = 4
	maxUnit  = 4
)

type Directory struct {
	gw gateway.Gateway

	mu    sync.Mutex
	cache map[string]api.Flat
}

func New(gw gateway.Gateway) *Directory {
	return &Directory{gw: gw, cache: make(map[string]api.Flat)}
}

// normalize uppercases and validates the shape of a flat code, returning
// wing and number.
func normalize(code string) (string, int, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 4 {
		return "", 0, fmt.Errorf("%w: malformed flat code %q", common.ErrorValidation, code)
	}
	wing := code[:1]
	number, err := strconv.Atoi(code[1:])
	if err != nil || number < 100 {
		return "", 0, fmt.Errorf("%w: malformed flat code %q", common.ErrorValidation, code)
	}
	return wing, number, nil
}

// inGrid reports whether wing/number falls inside the fixed society grid.
func inGrid(wing string, number int) bool {
	known := false
	for _, w := range wings {
		if w == wing {
			known = true
			break
		}
	}
	if !known {
		return false
	}
	floor := number / 100
	unit := number % 100
	return floor >= 1 && floor <= maxFloor && unit >= 1 && unit <= maxUnit
}

// Resolve maps a code like "b203" to a flat. Known codes are served from
// cache first; a gateway miss is authoritative (ErrorNotFound), while an
// unreachable gateway degrades to the synthetic grid.
func (d *Directory) Resolve(ctx context.Context, code string) (*api.Flat, error) {
	wing, number, err := normalize(code)
	if err != nil {
		return nil, err
	}
	canonical := fmt.Sprintf("%s%d", wing, number)

	d.mu.Lock()
	cached, ok := d.cache[canonical]
	d.mu.Unlock()
	if ok {
		return &cached, nil
	}

	flat, err := d.gw.GetFlat(ctx, canonical)
	if err == nil {
		d.mu.Lock()
		d.cache[canonical] = *flat
		d.mu.Unlock()
		return flat, nil
	}

	if errors.Is(err, common.ErrorTransport) {
		return d.synthetic(wing, number)
	}
	return nil, err
}

// synthetic builds a deterministic stand-in flat for offline intake. The
// id carries a marker prefix; the server resolves the real id again when
// the queued submission is replayed (the payload keeps the code, not the id).
func (d *Directory) synthetic(wing string, number int) (*api.Flat, error) {
	if !inGrid(wing, number) {
		return nil, fmt.Errorf("%w: flat %s%d is not in the society grid", common.ErrorNotFound, wing, number)
	}
	return &api.Flat{
		ID:     fmt.Sprintf("local-%s%d", wing, number),
		Wing:   wing,
		Number: number,
		Code:   fmt.Sprintf("%s%d", wing, number),
	}, nil
}
