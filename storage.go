package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"oss.terrastruct.com/xdefer"
)

// formatVersion 2 adds ids to boxes and connections. Files without a
// VERSION line are read as version 1, where boxes are numbered by position.
const formatVersion = 2

var errInvalidFormat = errors.New("invalid file format")

func (c *Canvas) SaveToFile(filename string, panX, panY int) (err error) {
	defer xdefer.Errorf(&err, "failed to save %s", filename)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := c.Save(w, panX, panY); err != nil {
		return err
	}
	return w.Flush()
}

func (c *Canvas) Save(w io.Writer, panX, panY int) error {
	fmt.Fprintf(w, "FLOWCHART\n")
	fmt.Fprintf(w, "VERSION:%d\n", formatVersion)
	fmt.Fprintf(w, "BOXES:%d\n", len(c.boxes))
	for _, box := range c.boxes {
		encodedText := strings.ReplaceAll(box.GetText(), "\n", "\\n")
		fmt.Fprintf(w, "%d,%d,%d,%d,%d,%s\n", box.ID, box.X, box.Y, box.Width, box.Height, encodedText)
	}

	fmt.Fprintf(w, "CONNECTIONS:%d\n", len(c.connections))
	for _, conn := range c.connections {
		fmt.Fprintf(w, "%d,%d,%d,%d,%d,%d,%d,%d\n",
			conn.ID, conn.FromID, conn.ToID,
			conn.FromX, conn.FromY,
			conn.ToX, conn.ToY,
			arrowFlags(conn))
	}

	_, err := fmt.Fprintf(w, "PAN:%d,%d\n", panX, panY)
	return err
}

func arrowFlags(conn *Connection) int {
	flags := 0
	if conn.ArrowFrom {
		flags |= 1
	}
	if conn.ArrowTo {
		flags |= 2
	}
	return flags
}

// LoadFromFile reads a saved canvas and the pan offset stored with it.
func LoadFromFile(filename string) (_ *Canvas, pan point, err error) {
	defer xdefer.Errorf(&err, "failed to load %s", filename)

	file, err := os.Open(filename)
	if err != nil {
		return nil, point{}, err
	}
	defer file.Close()
	return Load(file)
}

func Load(r io.Reader) (*Canvas, point, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "FLOWCHART" {
		return nil, point{}, errInvalidFormat
	}

	version := 1
	var snap Snapshot
	var pan point
	for scanner.Scan() {
		name, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), ":")
		if !ok {
			continue
		}
		switch name {
		case "VERSION":
			v, err := strconv.Atoi(value)
			if err != nil || v > formatVersion {
				return nil, point{}, fmt.Errorf("unsupported version %q", value)
			}
			version = v
		case "PAN":
			x, y, _ := strings.Cut(value, ",")
			pan.X, _ = strconv.Atoi(x)
			pan.Y, _ = strconv.Atoi(y)
		case "BOXES", "CONNECTIONS", "TEXTS", "HIGHLIGHTS":
			count, err := strconv.Atoi(value)
			if err != nil {
				return nil, point{}, fmt.Errorf("invalid %s count: %w", strings.ToLower(name), err)
			}
			for i := 0; i < count; i++ {
				if !scanner.Scan() {
					return nil, point{}, fmt.Errorf("missing %s data", strings.ToLower(name))
				}
				line := scanner.Text()
				var err error
				switch {
				case name == "BOXES" && version == 1:
					err = snap.addLegacyBox(i, line)
				case name == "BOXES":
					err = snap.addBox(line)
				case name == "CONNECTIONS" && version == 1:
					err = snap.addLegacyConnection(line)
				case name == "CONNECTIONS":
					err = snap.addConnection(line)
				}
				// Free text and cell highlights of older files are skipped.
				if err != nil {
					return nil, point{}, err
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, point{}, err
	}

	canvas := NewCanvas()
	if version == 1 {
		snap.assignLegacyIDs()
	}
	canvas.Restore(snap)
	return canvas, pan, nil
}

func atois(parts []string) ([]int, error) {
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", errInvalidFormat, p)
		}
		out[i] = n
	}
	return out, nil
}

func decodeText(s string) string {
	return strings.ReplaceAll(s, "\\n", "\n")
}

// addBox reads id,x,y,width,height,text.
func (s *Snapshot) addBox(line string) error {
	parts := strings.SplitN(line, ",", 6)
	if len(parts) < 6 {
		return fmt.Errorf("%w: box %q", errInvalidFormat, line)
	}
	n, err := atois(parts[:5])
	if err != nil {
		return err
	}
	box := Box{ID: n[0], X: n[1], Y: n[2]}
	box.SetText(decodeText(parts[5]))
	box.Width, box.Height = max(n[3], minBoxWidth), max(n[4], minBoxHeight)
	s.Boxes = append(s.Boxes, box)
	return nil
}

// addConnection reads id,from,to,fromX,fromY,toX,toY,arrows.
func (s *Snapshot) addConnection(line string) error {
	n, err := atois(strings.Split(line, ","))
	if err != nil {
		return err
	}
	if len(n) < 8 {
		return fmt.Errorf("%w: connection %q", errInvalidFormat, line)
	}
	s.Connections = append(s.Connections, Connection{
		ID: n[0], FromID: n[1], ToID: n[2],
		FromX: n[3], FromY: n[4], ToX: n[5], ToY: n[6],
		ArrowFrom: n[7]&1 != 0,
		ArrowTo:   n[7]&2 != 0,
	})
	return nil
}

// addLegacyBox reads the version 1 layouts X,Y,Width,Height,Text and
// X,Y,Text. A sixth field was once a color and is skipped.
func (s *Snapshot) addLegacyBox(index int, line string) error {
	parts := strings.Split(line, ",")
	if len(parts) < 3 {
		return fmt.Errorf("%w: box %q", errInvalidFormat, line)
	}
	box := Box{ID: index}
	var text string
	switch {
	case len(parts) >= 6:
		n, err := atois(parts[:4])
		if err != nil {
			return err
		}
		box.X, box.Y, box.Width, box.Height = n[0], n[1], n[2], n[3]
		text = strings.Join(parts[5:], ",")
	case len(parts) == 5:
		n, err := atois(parts[:4])
		if err != nil {
			return err
		}
		box.X, box.Y, box.Width, box.Height = n[0], n[1], n[2], n[3]
		text = parts[4]
	default:
		n, err := atois(parts[:2])
		if err != nil {
			return err
		}
		box.X, box.Y = n[0], n[1]
		text = strings.Join(parts[2:], ",")
	}
	w, h := box.Width, box.Height
	box.SetText(decodeText(text))
	if w > 0 && h > 0 {
		box.Width, box.Height = max(w, minBoxWidth), max(h, minBoxHeight)
	}
	s.Boxes = append(s.Boxes, box)
	return nil
}

// addLegacyConnection reads from,to or from,to,fromX,fromY,toX,toY,waypoints
// with optional arrow flags. Waypoints are dropped; connections are routed
// again from the box positions.
func (s *Snapshot) addLegacyConnection(line string) error {
	head, _, _ := strings.Cut(line, "|")
	parts := strings.Split(head, ",")
	switch {
	case len(parts) == 2:
		n, err := atois(parts)
		if err != nil {
			return err
		}
		s.Connections = append(s.Connections, Connection{FromID: n[0], ToID: n[1], ArrowTo: true})
	case len(parts) >= 7:
		n, err := atois(parts)
		if err != nil {
			return err
		}
		flags := 2
		if len(n) >= 8 {
			flags = n[7]
		}
		s.Connections = append(s.Connections, Connection{
			FromID: n[0], ToID: n[1],
			FromX: n[2], FromY: n[3], ToX: n[4], ToY: n[5],
			ArrowFrom: flags&1 != 0,
			ArrowTo:   flags&2 != 0,
		})
	default:
		return fmt.Errorf("%w: connection %q", errInvalidFormat, line)
	}
	return nil
}

// assignLegacyIDs moves version 1 entities onto the shared id counter:
// boxes keep their order and become 1..n, connections follow.
func (s *Snapshot) assignLegacyIDs() {
	byIndex := make(map[int]int, len(s.Boxes))
	for i := range s.Boxes {
		byIndex[s.Boxes[i].ID] = i + 1
		s.Boxes[i].ID = i + 1
	}
	next := len(s.Boxes) + 1
	for i := range s.Connections {
		conn := &s.Connections[i]
		from, okFrom := byIndex[conn.FromID]
		to, okTo := byIndex[conn.ToID]
		if !okFrom || !okTo {
			// Restore drops connections whose boxes are missing.
			conn.FromID, conn.ToID = -1, -1
		} else {
			conn.FromID, conn.ToID = from, to
		}
		conn.ID = next
		next++
	}
}
