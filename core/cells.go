package core

import "slices"

// PartitionByRow distributes cells across n buckets, whole rows at a time,
// round robin. Cells keep their relative order inside a bucket.
func PartitionByRow(cells [][2]int, n int) [][][2]int {
	if n < 1 {
		n = 1
	}
	buckets := make([][][2]int, n)
	row, bucket := -1, -1
	for _, c := range cells {
		if c[1] != row {
			row = c[1]
			bucket = (bucket + 1) % n
		}
		buckets[bucket] = append(buckets[bucket], c)
	}
	return buckets
}

// SortCells orders cells row-major: by row, then by column.
func SortCells(cells [][2]int) {
	slices.SortFunc(cells, func(a, b [2]int) int {
		if a[1] != b[1] {
			return a[1] - b[1]
		}
		return a[0] - b[0]
	})
}
