package doc

import (
	"regexp"
	"strings"
)

var (
	headingPattern  = regexp.MustCompile(`^## (\S+?):\s*(.+)$`)
	boundaryPattern = regexp.MustCompile(`(?m)^## `)
	metaPattern     = regexp.MustCompile(`(?s)<!-- harp:meta\n(.*?)-->`)
)

// Parse decodes the canonical text form into a Document.
//
// The frontmatter delimiter line must appear verbatim at least twice;
// otherwise a MALFORMED_FRONTMATTER error is returned. Text before the first
// recognized section heading becomes the preamble, never an error. Unknown
// metadata keys are preserved opaquely; structural violations (bad required
// field types, wrong entity count) are errors.
func Parse(text string) (*Document, error) {
	lines := strings.Split(text, "\n")
	first, second := -1, -1
	for i, line := range lines {
		if line != Delimiter {
			continue
		}
		if first < 0 {
			first = i
		} else {
			second = i
			break
		}
	}
	if second < 0 {
		return nil, malformed("frontmatter delimiter %q must appear twice", Delimiter)
	}

	fm, err := decodeFrontmatter(parseBlock(strings.Join(lines[first+1:second], "\n")))
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(strings.Join(lines[second+1:], "\n"))
	preamble, sections := parseBody(body)

	return &Document{
		Frontmatter: fm,
		Preamble:    preamble,
		Sections:    sections,
		Raw:         text,
	}, nil
}

// parseBody splits the body into preamble text and section chunks at heading
// boundaries, then parses each chunk.
func parseBody(body string) (string, []Section) {
	if body == "" {
		return "", nil
	}

	bounds := boundaryPattern.FindAllStringIndex(body, -1)
	var chunks []string
	prev := 0
	for _, b := range bounds {
		if b[0] > prev {
			chunks = append(chunks, body[prev:b[0]])
		}
		prev = b[0]
	}
	chunks = append(chunks, body[prev:])

	var preambleParts []string
	var sections []Section
	for _, chunk := range chunks {
		trimmed := strings.TrimSpace(chunk)
		if trimmed == "" {
			continue
		}
		sec, ok := parseSection(trimmed)
		if !ok {
			// Unrecognized-looking text before or between headings is
			// preamble, not an error.
			preambleParts = append(preambleParts, trimmed)
			continue
		}
		sections = append(sections, sec)
	}

	return strings.TrimSpace(strings.Join(preambleParts, "\n")), sections
}

// parseSection parses one chunk whose first line should be a section heading
// of the exact shape "## <Type>: <Title>". Returns ok=false when the heading
// does not match.
func parseSection(chunk string) (Section, bool) {
	headingLine := chunk
	rest := ""
	if idx := strings.IndexByte(chunk, '\n'); idx >= 0 {
		headingLine = chunk[:idx]
		rest = chunk[idx+1:]
	}

	m := headingPattern.FindStringSubmatch(headingLine)
	if m == nil {
		return Section{}, false
	}

	sec := Section{
		Type:  SectionType(m[1]),
		Title: m[2],
	}

	afterHeading := strings.TrimSpace(rest)
	// Only the first metadata block counts; later ones are plain content.
	if loc := metaPattern.FindStringSubmatchIndex(afterHeading); loc != nil {
		sec.Meta = decodeMeta(parseBlock(afterHeading[loc[2]:loc[3]]))
		afterHeading = strings.TrimSpace(afterHeading[:loc[0]] + afterHeading[loc[1]:])
	}
	sec.Content = afterHeading
	sec.Raw = SerializeSection(sec)
	return sec, true
}

// blockScanner walks the lines of a constrained-dialect block.
type blockScanner struct {
	lines []string
	pos   int
}

// parseBlock decodes a frontmatter or metadata block into a generic Map.
// Lines that do not fit the dialect are skipped; strictness for required
// fields is applied during decoding, not here.
func parseBlock(src string) Map {
	s := &blockScanner{lines: strings.Split(src, "\n")}
	return s.parseMap(0)
}

// peek returns the next meaningful line without consuming it.
// Blank lines and comment lines are consumed and skipped.
func (s *blockScanner) peek() (line string, indent int, ok bool) {
	for s.pos < len(s.lines) {
		l := s.lines[s.pos]
		trimmed := strings.TrimSpace(l)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			s.pos++
			continue
		}
		return l, len(l) - len(strings.TrimLeft(l, " ")), true
	}
	return "", 0, false
}

// parseMap reads key/value lines at exactly the given indent.
func (s *blockScanner) parseMap(indent int) Map {
	m := Map{}
	for {
		line, ind, ok := s.peek()
		if !ok || ind < indent {
			return m
		}
		trimmed := strings.TrimSpace(line)
		if ind > indent || strings.HasPrefix(trimmed, "- ") {
			// Stray deeper or list line in map position: skip.
			s.pos++
			continue
		}
		colon := strings.Index(trimmed, ":")
		if colon <= 0 {
			s.pos++
			continue
		}
		key := strings.TrimSpace(trimmed[:colon])
		rest := strings.TrimSpace(trimmed[colon+1:])
		s.pos++

		if rest != "" && rest != "|" {
			m[key] = CoerceScalar(rest)
			continue
		}

		// Block value: list or nested map, decided by the next line.
		next, nextIndent, ok := s.peek()
		if !ok || nextIndent <= indent {
			m[key] = List{}
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(next), "- ") {
			m[key] = s.parseList(nextIndent)
		} else {
			m[key] = s.parseMap(nextIndent)
		}
	}
}

// parseList reads "- item" lines at exactly the given indent. Items are
// scalars or maps; a map item's continuation lines are indented past the
// dash.
func (s *blockScanner) parseList(indent int) List {
	list := List{}
	for {
		line, ind, ok := s.peek()
		if !ok || ind < indent {
			return list
		}
		trimmed := strings.TrimSpace(line)
		if ind > indent {
			s.pos++
			continue
		}
		if !strings.HasPrefix(trimmed, "- ") {
			return list
		}
		itemText := strings.TrimSpace(trimmed[2:])
		s.pos++

		key, val, isMapItem := splitItemPair(itemText)
		if !isMapItem {
			list = append(list, CoerceScalar(itemText))
			continue
		}

		item := Map{}
		s.setItemField(item, key, val, indent)
		// Continuation lines belong to this item until indentation falls
		// back to the list level.
		for {
			cline, cind, ok := s.peek()
			if !ok || cind <= indent {
				break
			}
			ctrim := strings.TrimSpace(cline)
			if strings.HasPrefix(ctrim, "- ") {
				break
			}
			ccolon := strings.Index(ctrim, ":")
			if ccolon <= 0 {
				s.pos++
				continue
			}
			ckey := strings.TrimSpace(ctrim[:ccolon])
			cval := strings.TrimSpace(ctrim[ccolon+1:])
			s.pos++
			s.setItemField(item, ckey, cval, cind)
		}
		list = append(list, item)
	}
}

// setItemField assigns one field of a map-valued list item, recursing into a
// nested block when the value is empty (for example an entity's erc8004 map).
func (s *blockScanner) setItemField(item Map, key, val string, indent int) {
	if val != "" && val != "|" {
		item[key] = CoerceScalar(val)
		return
	}
	next, nextIndent, ok := s.peek()
	if !ok || nextIndent <= indent {
		item[key] = List{}
		return
	}
	if strings.HasPrefix(strings.TrimSpace(next), "- ") {
		item[key] = s.parseList(nextIndent)
	} else {
		item[key] = s.parseMap(nextIndent)
	}
}

// splitItemPair decides whether a list item is "key: value" or a scalar.
// Quoted tokens and scalar keywords are never map items, so a string value
// containing a colon does not get misread as a pair.
func splitItemPair(itemText string) (key, val string, isMapItem bool) {
	if itemText == "" {
		return "", "", false
	}
	switch itemText[0] {
	case '"', '\'':
		return "", "", false
	}
	switch itemText {
	case "null", "~", "true", "false":
		return "", "", false
	}
	colon := strings.Index(itemText, ":")
	if colon <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(itemText[:colon])
	if strings.ContainsAny(key, " \"'") {
		return "", "", false
	}
	return key, strings.TrimSpace(itemText[colon+1:]), true
}
