package media

import (
	"context"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"runtime"
	"sort"
	"sync"

	"github.com/corona10/goimagehash"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// CalculateCRC32 calculates the CRC32 checksum of a file
func CalculateCRC32(filename string) (uint32, error) {
	f, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	h := crc32.NewIEEE()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}

	return h.Sum32(), nil
}

// DuplicateGroup is a set of assets with identical content
type DuplicateGroup struct {
	Hash  string
	Size  int64
	Paths []string
}

// FindDuplicates hashes every asset under root and groups those whose size and
// CRC32 agree. Groups and the paths inside them are sorted.
func FindDuplicates(ctx context.Context, root string, workers int, logger zerolog.Logger) ([]DuplicateGroup, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	assets, err := Discover(ctx, root, DiscoverOptions{Workers: workers, Logger: logger})
	if err != nil {
		return nil, err
	}

	type key struct {
		hash string
		size int64
	}
	var mu sync.Mutex
	groups := make(map[key][]string)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, asset := range assets {
		asset := asset
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fi, err := os.Stat(asset.Path())
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", asset.Path(), err)
			}
			sum, err := CalculateCRC32(asset.Path())
			if err != nil {
				return fmt.Errorf("failed to calculate hash for %s: %w", asset.Path(), err)
			}
			k := key{hash: fmt.Sprintf("%08X", sum), size: fi.Size()}

			mu.Lock()
			groups[k] = append(groups[k], asset.Path())
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var duplicates []DuplicateGroup
	for k, paths := range groups {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		duplicates = append(duplicates, DuplicateGroup{Hash: k.hash, Size: k.size, Paths: paths})
	}
	sort.Slice(duplicates, func(i, j int) bool { return duplicates[i].Paths[0] < duplicates[j].Paths[0] })
	return duplicates, nil
}

// PerceptualHash decodes a photo and calculates its perceptual hash
func PerceptualHash(path string) (*goimagehash.ImageHash, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := imaging().decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	hash, err := goimagehash.PerceptionHash(img)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate perceptual hash: %w", err)
	}
	return hash, nil
}

// SimilarPair is two photos within the similarity threshold
type SimilarPair struct {
	A, B     string
	Distance int
}

// FindSimilar compares every pair of hashed photos and returns those whose
// Hamming distance is at most threshold, closest first.
func FindSimilar(hashes map[string]*goimagehash.ImageHash, threshold int) ([]SimilarPair, error) {
	paths := make([]string, 0, len(hashes))
	for p := range hashes {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var pairs []SimilarPair
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			distance, err := hashes[paths[i]].Distance(hashes[paths[j]])
			if err != nil {
				return nil, fmt.Errorf("failed to compare %s and %s: %w", paths[i], paths[j], err)
			}
			if distance <= threshold {
				pairs = append(pairs, SimilarPair{A: paths[i], B: paths[j], Distance: distance})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Distance < pairs[j].Distance })
	return pairs, nil
}
