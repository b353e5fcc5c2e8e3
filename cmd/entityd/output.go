package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/groblegark/entityd/internal/model"
	"golang.org/x/term"
)

// terminalWidth returns the width of stdout when it is a terminal, or a
// conservative default for pipes and redirects.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return 100
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printEntity(e *model.Entity) error {
	if jsonOutput {
		return printJSON(e)
	}
	fmt.Printf("id:         %d\n", e.ID)
	fmt.Printf("created_at: %s\n", e.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("created_by: %s\n", e.CreatedBy)
	fmt.Printf("data:       %s\n", e.Data)
	return nil
}

func printEntityTable(entities []*model.Entity) error {
	if jsonOutput {
		return printJSON(entities)
	}

	// Budget the data column to whatever width remains after the fixed columns.
	dataWidth := terminalWidth() - 40
	if dataWidth < 20 {
		dataWidth = 20
	}

	fmt.Printf("%-6s  %-19s  %-10s  %s\n", "ID", "CREATED", "BY", "DATA")
	for _, e := range entities {
		data := string(e.Data)
		if len(data) > dataWidth {
			data = data[:dataWidth-3] + "..."
		}
		fmt.Printf("%-6d  %-19s  %-10s  %s\n",
			e.ID,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			truncate(e.CreatedBy, 10),
			data,
		)
	}
	fmt.Printf("\n%d entities\n", len(entities))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
