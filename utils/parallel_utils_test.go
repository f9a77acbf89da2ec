package utils

import (
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Bucket sizes differ by at most one
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				kMin, kMax := pm.GetBucketRange(np)
				histo[kMax-kMin]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 7)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1]))
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Buckets tile the index range in order
		for maxIndex := 10; maxIndex < 300; maxIndex++ {
			var (
				pm   = NewPartitionMap(5, maxIndex)
				next int
			)
			for np := 0; np < pm.ParallelDegree; np++ {
				kMin, kMax := pm.GetBucketRange(np)
				assert.Equal(t, next, kMin)
				assert.Equal(t, pm.Split1D(np), [2]int{kMin, kMax})
				next = kMax
			}
			assert.Equal(t, maxIndex, next)
		}
	}
	{ // Run visits every index once
		var (
			pm    = NewPartitionMap(6, 1000)
			seen  = make([]int32, 1000)
			count int64
		)
		err := pm.Run(func(bn, kMin, kMax int) error {
			for k := kMin; k < kMax; k++ {
				atomic.AddInt32(&seen[k], 1)
				atomic.AddInt64(&count, 1)
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, int64(1000), count)
		for _, s := range seen {
			assert.Equal(t, int32(1), s)
		}
		err = NewPartitionMap(3, 9).Run(func(bn, kMin, kMax int) error {
			if bn > 0 {
				return fmt.Errorf("bucket %d failed", bn)
			}
			return nil
		})
		assert.EqualError(t, err, "bucket 1 failed")
	}
}
