package identity

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// EntityID is a tagged identifier for a human or agent. One of:
//
//	"erc8004:<chainId>:<agentId>"  (onchain agent)
//	"eth:<address>"                (Ethereum address)
//	"airc:<handle>"                (AIRC handle)
type EntityID = string

// DyadID identifies the relationship between exactly two entities:
// "harp:<entityA>:<entityB>" where entityA < entityB lexicographically.
type DyadID = string

// Namespace prefixes for entity identifiers.
const (
	PrefixERC8004 = "erc8004:"
	PrefixEth     = "eth:"
	PrefixAIRC    = "airc:"

	// DyadPrefix is prepended to the sorted entity pair.
	DyadPrefix = "harp:"
)

// Normalize canonicalizes an entity identifier for consistent sorting and
// comparison:
//
//   - erc8004: chainId and agentId as decimal integers, no leading zeros
//   - eth: address lowercased
//   - airc: handle NFC-normalized, lowercased, trimmed
//
// Normalization is idempotent. Returns an INVALID_IDENTIFIER error if the
// namespace tag is unrecognized or the id is structurally malformed.
func Normalize(id EntityID) (EntityID, error) {
	switch {
	case strings.HasPrefix(id, PrefixERC8004):
		parts := strings.Split(id, ":")
		if len(parts) != 3 {
			return "", newInvalidIdentifier(id, "erc8004 id must have exactly three fields")
		}
		chainID, err := strconv.ParseUint(parts[1], 10, 64)
		if err != nil {
			return "", newInvalidIdentifier(id, "erc8004 chain id must be a non-negative integer")
		}
		agentID, err := strconv.ParseUint(parts[2], 10, 64)
		if err != nil {
			return "", newInvalidIdentifier(id, "erc8004 agent id must be a non-negative integer")
		}
		return fmt.Sprintf("erc8004:%d:%d", chainID, agentID), nil

	case strings.HasPrefix(id, PrefixEth):
		return PrefixEth + strings.ToLower(id[len(PrefixEth):]), nil

	case strings.HasPrefix(id, PrefixAIRC):
		handle := norm.NFC.String(id[len(PrefixAIRC):])
		return PrefixAIRC + strings.TrimSpace(strings.ToLower(handle)), nil

	default:
		return "", newInvalidIdentifier(id, "unknown entity id namespace")
	}
}

// MustNormalize is like Normalize but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustNormalize(id EntityID) EntityID {
	normalized, err := Normalize(id)
	if err != nil {
		panic(err)
	}
	return normalized
}

// ComputeDyadID computes the canonical dyad identifier for two entities.
// Both ids are normalized and sorted lexicographically, so
// ComputeDyadID(a, b) == ComputeDyadID(b, a) for all valid a != b. Returns a
// DEGENERATE_DYAD error if the two ids normalize to the same value.
func ComputeDyadID(entityA, entityB EntityID) (DyadID, error) {
	a, err := Normalize(entityA)
	if err != nil {
		return "", err
	}
	b, err := Normalize(entityB)
	if err != nil {
		return "", err
	}

	if a == b {
		return "", &Error{
			Code:    ErrCodeDegenerateDyad,
			Message: "a dyad requires two distinct entities",
			ID:      a,
		}
	}

	pair := []string{a, b}
	sort.Strings(pair)
	return DyadPrefix + pair[0] + ":" + pair[1], nil
}

// SortDescriptorIDs returns the two ids in the order their dyad id uses.
// Callers embedding entity descriptors in frontmatter must match this order.
func SortDescriptorIDs(a, b EntityID) (first, second EntityID) {
	if a < b {
		return a, b
	}
	return b, a
}
