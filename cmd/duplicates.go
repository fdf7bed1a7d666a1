package cmd

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/victorhqc/photos-manager/media"
	"github.com/victorhqc/photos-manager/types"
	"github.com/victorhqc/photos-manager/ui"
)

type DuplicatesCmd struct {
	Directory string `arg:"" name:"directory" help:"Directory to scan for duplicates" type:"existingdir" default:"."`
	NoTUI     bool   `name:"no-tui" help:"Disable interactive TUI and just list duplicates"`
}

func (cmd *DuplicatesCmd) Run(appCtx *types.AppContext) error {
	logger := appCtx.Log().With().Str("command", "duplicates").Logger()
	ctx, cancel := signalContext()
	defer cancel()

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("Photos Manager %s", appCtx.VersionOrDefault())))
	fmt.Printf("Scanning %s for duplicates...\n", cmd.Directory)

	workers := resolveWorkers(appCtx, cmd.Directory)
	duplicates, err := media.FindDuplicates(ctx, cmd.Directory, workers, logger)
	if err != nil {
		return fmt.Errorf("failed to find duplicates: %w", err)
	}

	if len(duplicates) == 0 {
		fmt.Printf("%s\n", ui.SuccessStyle.Render("✅ No duplicates found"))
		return nil
	}

	if cmd.NoTUI {
		fmt.Printf("\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("Found %d group(s) of duplicates, %s reclaimable:",
			len(duplicates), humanize.Bytes(uint64(reclaimable(duplicates))))))
		fmt.Println(renderDuplicates(duplicates))
		return nil
	}

	model := ui.NewDuplicatesModel(duplicates)
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(ui.DuplicatesModel); ok {
		deleted, freed := m.Deleted()
		logger.Info().Int("deleted", deleted).Int64("freed_bytes", freed).Msg("duplicate review finished")
		if deleted > 0 {
			fmt.Printf("%s\n", ui.SuccessStyle.Render(fmt.Sprintf("✅ Deleted %d file(s), freed %s", deleted, humanize.Bytes(uint64(freed)))))
		}
	}
	return nil
}

// reclaimable is the space freed by keeping one copy of every group
func reclaimable(groups []media.DuplicateGroup) int64 {
	var total int64
	for _, g := range groups {
		total += g.Size * int64(len(g.Paths)-1)
	}
	return total
}

func renderDuplicates(groups []media.DuplicateGroup) string {
	var rows [][]string
	for i, g := range groups {
		for j, p := range g.Paths {
			group, hash, size := "", "", ""
			if j == 0 {
				group = strconv.Itoa(i + 1)
				hash = g.Hash
				size = humanize.Bytes(uint64(g.Size))
			}
			rows = append(rows, []string{group, hash, size, p})
		}
	}
	return renderTable(
		[]string{"#", "CRC32", "Size", "Path"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
	)
}
