package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/corona10/goimagehash"
	"github.com/victorhqc/photos-manager/media"
	"github.com/victorhqc/photos-manager/types"
	"github.com/victorhqc/photos-manager/ui"
)

// SimilarCmd finds perceptually similar photos. Directories are expanded to
// every photo below them.
type SimilarCmd struct {
	Paths     []string `arg:"" name:"paths" help:"Photos or directories to compare" type:"path"`
	Threshold int      `help:"Hamming distance threshold for similarity (0-64)" default:"10"`
}

// Run compares every pair of photos and reports those within the threshold
// (lower distance = more similar).
func (cmd *SimilarCmd) Run(appCtx *types.AppContext) error {
	logger := appCtx.Log().With().Str("command", "similar").Logger()
	ctx, cancel := signalContext()
	defer cancel()

	if cmd.Threshold < 0 || cmd.Threshold > 64 {
		return fmt.Errorf("threshold must be between 0 and 64, got %d", cmd.Threshold)
	}

	workers := resolveWorkers(appCtx, cmd.Paths...)
	var photos []media.Asset
	for _, p := range cmd.Paths {
		assets, err := media.Discover(ctx, p, media.DiscoverOptions{Workers: workers, Logger: logger})
		if err != nil {
			return err
		}
		for _, a := range assets {
			if a.IsPhoto() {
				photos = append(photos, a)
			}
		}
	}

	if len(photos) < 2 {
		fmt.Printf("%s\n", ui.ErrorStyle.Render("❌ Need at least 2 photos to compare"))
		return nil
	}

	fmt.Printf("%s\n", ui.InfoStyle.Render(fmt.Sprintf("Calculating perceptual hashes for %d photos...", len(photos))))

	hashes := make(map[string]*goimagehash.ImageHash, len(photos))
	for _, photo := range photos {
		if err := ctx.Err(); err != nil {
			return err
		}
		hash, err := media.PerceptualHash(photo.Path())
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ Error calculating perceptual hash for %s: %v", photo.Path(), err)))
			continue
		}
		hashes[photo.Path()] = hash
	}

	fmt.Printf("\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("Comparing %d photos for similarity (threshold: %d):", len(hashes), cmd.Threshold)))

	pairs, err := media.FindSimilar(hashes, cmd.Threshold)
	if err != nil {
		return fmt.Errorf("failed to compare hashes: %w", err)
	}
	if len(pairs) == 0 {
		fmt.Printf("%s\n", ui.SuccessStyle.Render("✅ No similar photos found within threshold"))
		return nil
	}

	rows := make([][]string, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []string{strconv.Itoa(p.Distance), p.A, p.B})
	}
	fmt.Println(renderTable(
		[]string{"Distance", "Photo", "Similar to"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	))
	return nil
}
