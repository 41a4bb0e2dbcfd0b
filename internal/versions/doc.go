// Package versions resolves template release tags to canonical pins.
//
// Resolution is tiered: the structured GitHub listing is consulted first, and
// any failure there falls back silently to anonymous git tag enumeration. The
// caller only ever sees the fallback tier's outcome.
package versions
