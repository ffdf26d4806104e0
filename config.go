package main

import (
	"bufio"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	SaveDirectory string
	GridSize      float64
	ShowGrid      bool
	StrandWidth   float64
	DefaultColor  color.RGBA
	Confirmations bool
}

func loadConfig() *Config {
	config := &Config{
		SaveDirectory: "",
		GridSize:      defaultGridSize,
		ShowGrid:      true,
		StrandWidth:   defaultStrandWidth,
		DefaultColor:  defaultStrandColor,
		Confirmations: true,
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return config
	}

	configPath := filepath.Join(homeDir, ".lanyardrc")
	file, err := os.Open(configPath)
	if err != nil {
		return config
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			if strings.HasPrefix(value, "~") {
				value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
			}
			if !filepath.IsAbs(value) {
				if absPath, err := filepath.Abs(value); err == nil {
					value = absPath
				}
			}
			config.SaveDirectory = value
		case "gridsize", "grid_size":
			if size, err := strconv.ParseFloat(value, 64); err == nil && size > 0 {
				config.GridSize = size
			}
		case "showgrid", "show_grid":
			config.ShowGrid = strings.ToLower(value) == "true"
		case "strandwidth", "strand_width":
			if w, err := strconv.ParseFloat(value, 64); err == nil && w >= 0 {
				config.StrandWidth = w
			}
		case "defaultcolor", "default_color":
			if col, err := parseHexColor(value); err == nil {
				config.DefaultColor = col
			}
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		}
	}

	return config
}

func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	col := color.RGBA{A: 255}
	if len(s) == 8 {
		col.A = uint8(v & 0xff)
		v >>= 8
	}
	col.B = uint8(v & 0xff)
	col.G = uint8((v >> 8) & 0xff)
	col.R = uint8((v >> 16) & 0xff)
	return col, nil
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

func (c *Config) apply(canvas *Canvas) {
	canvas.SetGridSize(c.GridSize)
	canvas.showGrid = c.ShowGrid
	canvas.SetStrandWidth(c.StrandWidth)
	canvas.SetDefaultStrandColor(c.DefaultColor)
}
