package orders

import "strings"

// Bucket is one canonical order lifecycle stage. The upstream status column
// is free text; buckets are recovered by substring matching, never by
// equality.
type Bucket string

const (
	BucketUnconfirmed    Bucket = "belum dikonfirm"
	BucketCooking        Bucket = "dimasak"
	BucketOutForDelivery Bucket = "diantar"
	BucketArrived        Bucket = "sampai"
)

// CanonicalBuckets lists the four stages in lifecycle order, usable both for
// filtering requests and for rendering tabs.
var CanonicalBuckets = []Bucket{
	BucketUnconfirmed,
	BucketCooking,
	BucketOutForDelivery,
	BucketArrived,
}

// Classify maps a free-text status onto exactly one bucket by case-
// insensitive substring containment, checked in lifecycle priority.
// Unrecognized strings fall back to the first bucket: a lossy but total
// mapping, deliberate given the upstream's open-ended vocabulary.
func Classify(status string) Bucket {
	lowered := strings.ToLower(status)
	switch {
	case strings.Contains(lowered, "belum"):
		return BucketUnconfirmed
	case strings.Contains(lowered, "dimasak"):
		return BucketCooking
	case strings.Contains(lowered, "diantar"):
		return BucketOutForDelivery
	case strings.Contains(lowered, "sampai"):
		return BucketArrived
	}
	return BucketUnconfirmed
}
