package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		status string
		want   Bucket
	}{
		{"Belum Dikonfirm", BucketUnconfirmed},
		{"belum dikonfirmasi", BucketUnconfirmed},
		{"Sedang Dimasak", BucketCooking},
		{"Sudah Diantar ke kelas", BucketOutForDelivery},
		{"Pesanan Sampai", BucketArrived},
		{"sampai tujuan", BucketArrived},
		{"", BucketUnconfirmed},
		{"unknown-garbage", BucketUnconfirmed},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.status), "status %q", tc.status)
	}
}

func TestClassifyPriority(t *testing.T) {
	// "belum" outranks later keywords when a status mentions several.
	assert.Equal(t, BucketUnconfirmed, Classify("belum dimasak"))
}

func TestCanonicalBuckets(t *testing.T) {
	assert.Len(t, CanonicalBuckets, 4)
	assert.Equal(t, BucketUnconfirmed, CanonicalBuckets[0])
}
