package render

import "strings"

// BlockKind classifies one line of model output for document layout.
type BlockKind int

const (
	BlockHeading1 BlockKind = iota + 1
	BlockHeading2
	BlockHeading3
	BlockBullet
	BlockNumbered
	BlockParagraph
)

// Run is a span of paragraph text with one formatting state.
type Run struct {
	Text string
	Bold bool
}

// Block is one classified line. Headings and list items carry a single run;
// paragraphs may alternate bold and plain runs.
type Block struct {
	Kind BlockKind
	Runs []Run
}

func (b Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// ParseBlocks splits generated markdown line by line into layout blocks.
// This is deliberately not a markdown parser: each line is classified on its
// own, blank lines are dropped, and only the constructs models reliably emit
// are recognized (#/##/### headings, -/* bullets, "n." numbered items and
// ** bold spans).
func ParseBlocks(content string) []Block {
	var blocks []Block
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "###"):
			blocks = append(blocks, plainBlock(BlockHeading3, stripMarker(line, "###")))
		case strings.HasPrefix(line, "##"):
			blocks = append(blocks, plainBlock(BlockHeading2, stripMarker(line, "##")))
		case strings.HasPrefix(line, "#"):
			blocks = append(blocks, plainBlock(BlockHeading1, stripMarker(line, "#")))
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			blocks = append(blocks, plainBlock(BlockBullet, line[2:]))
		case isNumberedItem(line):
			_, text, _ := strings.Cut(line, ". ")
			blocks = append(blocks, plainBlock(BlockNumbered, text))
		case strings.Contains(line, "**"):
			blocks = append(blocks, Block{Kind: BlockParagraph, Runs: boldRuns(line)})
		default:
			blocks = append(blocks, plainBlock(BlockParagraph, line))
		}
	}
	return blocks
}

func plainBlock(kind BlockKind, text string) Block {
	return Block{Kind: kind, Runs: []Run{{Text: text}}}
}

func stripMarker(line, marker string) string {
	return strings.TrimSpace(strings.ReplaceAll(line, marker, ""))
}

func isNumberedItem(line string) bool {
	return line[0] >= '0' && line[0] <= '9' && strings.Contains(line, ". ")
}

// boldRuns splits on ** so odd segments are bold. Empty segments are dropped
// after the parity is fixed, so "**lead** rest" yields a bold run then a
// plain one.
func boldRuns(line string) []Run {
	parts := strings.Split(line, "**")
	runs := make([]Run, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			continue
		}
		runs = append(runs, Run{Text: part, Bold: i%2 == 1})
	}
	if len(runs) == 0 {
		runs = append(runs, Run{Text: ""})
	}
	return runs
}
