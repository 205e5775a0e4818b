package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EEEEEE"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F2B134"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <model.obj|model.glb>",
		Short: "Display model information",
		Long:  "Display information about a model: vertex and face counts, degenerate faces, bounds, surface area and materials.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := modelInfo(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

// modelInfo loads path and formats its statistics.
func modelInfo(path string) (string, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cannot access file: %w", err)
	}

	mesh, err := loadMesh(path, true)
	if err != nil {
		return "", fmt.Errorf("load model: %w", err)
	}
	set, err := models.NewBuilder().Build(mesh)
	if err != nil {
		return "", fmt.Errorf("build surfaces: %w", err)
	}

	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}
	vec := func(v math3d.Vec3) string {
		return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
	}

	ext := strings.ToUpper(strings.TrimPrefix(filepath.Ext(path), "."))
	skipped := valueStyle.Render("0")
	if set.Skipped > 0 {
		skipped = warnStyle.Render(fmt.Sprintf("%d", set.Skipped))
	}

	rows := []string{
		titleStyle.Render(filepath.Base(path)),
		"",
		row("Format", ext),
		row("File size", fmt.Sprintf("%.2f KB", float64(stat.Size())/1024)),
		row("Vertices", fmt.Sprintf("%d", mesh.VertexCount())),
		row("Faces", fmt.Sprintf("%d", mesh.TriangleCount())),
		row("Surfaces", fmt.Sprintf("%d", len(set.Surfaces))),
		lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render("Degenerate"), skipped),
		row("Bounds min", vec(mesh.BoundsMin)),
		row("Bounds max", vec(mesh.BoundsMax)),
		row("Size", vec(mesh.Size())),
		row("Area", fmt.Sprintf("%.4f", set.Area())),
	}

	if mesh.MaterialCount() > 0 {
		rows = append(rows, "", titleStyle.Render("Materials"))
		for _, mat := range mesh.Materials {
			rows = append(rows, row(mat.Name, materialSummary(mat)))
		}
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)), nil
}

func materialSummary(mat models.Material) string {
	c := mat.DiffuseColor()
	parts := []string{fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)}
	if mat.BaseMap != nil {
		b := mat.BaseMap.Bounds()
		parts = append(parts, fmt.Sprintf("texture %dx%d", b.Dx(), b.Dy()))
	}
	if mat.NormalMap != nil {
		b := mat.NormalMap.Bounds()
		parts = append(parts, fmt.Sprintf("normal map %dx%d", b.Dx(), b.Dy()))
	}
	return strings.Join(parts, ", ")
}
