package domain

import "errors"

// BloodType is one of the eight ABO/Rh groups.
type BloodType string

const (
	APositive  BloodType = "A+"
	ANegative  BloodType = "A-"
	BPositive  BloodType = "B+"
	BNegative  BloodType = "B-"
	ABPositive BloodType = "AB+"
	ABNegative BloodType = "AB-"
	OPositive  BloodType = "O+"
	ONegative  BloodType = "O-"
)

// BloodTypes lists every recognized group in schema order.
var BloodTypes = []BloodType{
	APositive, ANegative,
	BPositive, BNegative,
	ABPositive, ABNegative,
	OPositive, ONegative,
}

var (
	ErrUnknownBloodType   = errors.New("unknown blood type")
	ErrNegativeCount      = errors.New("blood unit count must not be negative")
	ErrDuplicateBloodType = errors.New("duplicate blood type in entry list")
	ErrInsufficientStock  = errors.New("stock insufficient")
	ErrStockUnderflow     = errors.New("stock decrement would drop below zero")
)

// BloodGroupEntry is one (bloodType, count) pair of an institution's inventory.
type BloodGroupEntry struct {
	BloodType BloodType
	Count     int32
}

// IsValid reports whether t is one of the eight recognized groups.
func (t BloodType) IsValid() bool {
	switch t {
	case APositive, ANegative, BPositive, BNegative, ABPositive, ABNegative, OPositive, ONegative:
		return true
	default:
		return false
	}
}

// SeedStock returns a fresh inventory with every blood type at zero,
// matching how institutions are provisioned on registration.
func SeedStock() []BloodGroupEntry {
	stock := make([]BloodGroupEntry, 0, len(BloodTypes))
	for _, t := range BloodTypes {
		stock = append(stock, BloodGroupEntry{BloodType: t})
	}
	return stock
}

// ValidateEntries enforces known types, non-negative counts, and the
// at-most-one-entry-per-type invariant.
func ValidateEntries(entries []BloodGroupEntry) error {
	seen := make(map[BloodType]bool, len(entries))
	for _, e := range entries {
		if !e.BloodType.IsValid() {
			return ErrUnknownBloodType
		}
		if e.Count < 0 {
			return ErrNegativeCount
		}
		if seen[e.BloodType] {
			return ErrDuplicateBloodType
		}
		seen[e.BloodType] = true
	}
	return nil
}

// CheckSufficient verifies that stock covers every requested entry.
// A type absent from stock counts as zero available.
func CheckSufficient(stock, requested []BloodGroupEntry) error {
	available := indexByType(stock)
	for _, want := range requested {
		if want.Count <= 0 {
			continue
		}
		if available[want.BloodType] < want.Count {
			return ErrInsufficientStock
		}
	}
	return nil
}

// Debit returns a new stock list with the requested counts removed.
// The input slices are never mutated. Every entry of stock survives;
// only matched types change. Fails when any requested type is short.
func Debit(stock, requested []BloodGroupEntry) ([]BloodGroupEntry, error) {
	if err := CheckSufficient(stock, requested); err != nil {
		return nil, err
	}
	wanted := indexByType(requested)
	result := make([]BloodGroupEntry, 0, len(stock))
	for _, e := range stock {
		if n, ok := wanted[e.BloodType]; ok {
			e.Count -= n
		}
		result = append(result, e)
	}
	return result, nil
}

// Credit returns a new stock list with the requested counts added.
// Types missing from stock gain a fresh entry, so the receiving side
// grows even when its schema was never seeded with that type.
func Credit(stock, requested []BloodGroupEntry) []BloodGroupEntry {
	wanted := indexByType(requested)
	result := make([]BloodGroupEntry, 0, len(stock)+len(requested))
	for _, e := range stock {
		if n, ok := wanted[e.BloodType]; ok {
			e.Count += n
			delete(wanted, e.BloodType)
		}
		result = append(result, e)
	}
	for _, t := range BloodTypes {
		if n, ok := wanted[t]; ok && n != 0 {
			result = append(result, BloodGroupEntry{BloodType: t, Count: n})
		}
	}
	return result
}

// Shift applies signed deltas to stock: negative counts debit, positive
// counts credit. Debits that would drop a count below zero fail with
// ErrStockUnderflow instead of clamping.
func Shift(stock, deltas []BloodGroupEntry) ([]BloodGroupEntry, error) {
	var debits, credits []BloodGroupEntry
	for _, d := range deltas {
		if !d.BloodType.IsValid() {
			return nil, ErrUnknownBloodType
		}
		if d.Count < 0 {
			debits = append(debits, BloodGroupEntry{BloodType: d.BloodType, Count: -d.Count})
		} else if d.Count > 0 {
			credits = append(credits, d)
		}
	}
	next, err := Debit(stock, debits)
	if err != nil {
		return nil, ErrStockUnderflow
	}
	return Credit(next, credits), nil
}

// Merge folds adjustments into stock, summing counts per type and
// clamping the merged count at zero from below. Used by the
// institution profile stock patch.
func Merge(stock, adjustments []BloodGroupEntry) []BloodGroupEntry {
	totals := indexByType(stock)
	for _, a := range adjustments {
		totals[a.BloodType] += a.Count
	}
	result := make([]BloodGroupEntry, 0, len(totals))
	for _, t := range BloodTypes {
		count, ok := totals[t]
		if !ok {
			continue
		}
		if count < 0 {
			count = 0
		}
		result = append(result, BloodGroupEntry{BloodType: t, Count: count})
	}
	return result
}

func indexByType(entries []BloodGroupEntry) map[BloodType]int32 {
	index := make(map[BloodType]int32, len(entries))
	for _, e := range entries {
		index[e.BloodType] += e.Count
	}
	return index
}
