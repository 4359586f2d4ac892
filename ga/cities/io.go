package cities

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Load reads a city set from a file. See Read for the format.
func Load(filePath string) (*Cities, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cities file '%s': %w", filePath, err)
	}
	defer file.Close()

	c, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read cities file '%s': %w", filePath, err)
	}
	return c, nil
}

// Read parses one city per line, given as two whitespace-separated numbers "x y".
// Blank lines and lines starting with '#' are skipped.
func Read(r io.Reader) (*Cities, error) {
	var points []Point
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected 2 coordinates, got %d", lineNo, len(fields))
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad x coordinate: %w", lineNo, err)
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad y coordinate: %w", lineNo, err)
		}
		points = append(points, Point{X: x, Y: y})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return New(points)
}

// WriteTSV writes the cities in set order as "x\ty" lines.
func (c *Cities) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, p := range c.points {
		if _, err := fmt.Fprintf(bw, "%s\t%s\n", formatCoord(p.X), formatCoord(p.Y)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Save writes the cities to filePath in TSV form, truncating any existing file.
func (c *Cities) Save(filePath string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create cities file '%s': %w", filePath, err)
	}
	if err := c.WriteTSV(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to write cities file '%s': %w", filePath, err)
	}
	return file.Close()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
