package augur

import "errors"

// ErrInvalidConfig is returned by NewEngine when construction parameters
// are out of range. It is fatal to the caller — the engine is never
// partially constructed.
var ErrInvalidConfig = errors.New("augur: invalid configuration")

// ErrInvalidParameter is returned by Engine.Estimate when
// numBlocksOverride is non-nil and less than 3 — we cannot simulate
// fewer than 3 blocks.
var ErrInvalidParameter = errors.New("augur: invalid parameter")
