package attribute

import "github.com/artpar/attrkit/ports"

// Now builds the canonical "current instant" generator over clk, producing
// UTC timestamps. Construct it once at wiring time and reuse the same
// reference for every attribute that should share the resolved instant.
func Now(clk ports.Clock) Generator {
	return func() (any, error) {
		return clk.Now().UTC(), nil
	}
}

// UUID builds the canonical identifier generator over ids. As with Now,
// construct once and reuse the reference.
func UUID(ids ports.IDGenerator) Generator {
	return func() (any, error) {
		return ids.New(), nil
	}
}
