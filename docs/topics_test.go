package docs

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// readmeTopics extracts the topic names listed in readme.md, one
// "* name: description" line each.
func readmeTopics(t *testing.T) []string {
	t.Helper()
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var topics []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			topics = append(topics, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}
	return topics
}

// TestTopics keeps the documentation in sync with itself: every topic the
// readme lists loads, and every topic file is listed in the readme.
func TestTopics(t *testing.T) {
	listed := readmeTopics(t)
	if len(listed) == 0 {
		t.Fatal("readme.md lists no topics")
	}

	for _, topic := range listed {
		t.Run("load_"+topic, func(t *testing.T) {
			if _, err := GetTopic(topic); err != nil {
				t.Errorf("failed to get topic %q: %v", topic, err)
			}
		})
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestGetTopicStarExpandsToEverything(t *testing.T) {
	content, err := GetTopic("*")
	if err != nil {
		t.Fatal(err)
	}
	all, _ := GetAllTopics()
	for _, topic := range all {
		single, _ := GetTopic(topic)
		if !strings.Contains(content, single) {
			t.Errorf("expanded content misses topic %q", topic)
		}
	}
}

func TestGetTopicUnknown(t *testing.T) {
	if _, err := GetTopic("no-such-topic"); err == nil {
		t.Error("unknown topics must error")
	}
}

// TestTopicStructure parses every topic file and checks its shape: a single
// top-level heading first, and only known languages on fenced code blocks.
func TestTopicStructure(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no topic files found")
	}
	known := []string{"bash", "console", "yaml"}

	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			content, err := os.ReadFile(file)
			if err != nil {
				t.Fatal(err)
			}
			root := goldmark.DefaultParser().Parse(text.NewReader(content))

			first := root.FirstChild()
			h, ok := first.(*ast.Heading)
			if !ok || h.Level != 1 {
				t.Errorf("%s must open with a level-1 heading", file)
			}

			h1s := 0
			ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
				if !entering {
					return ast.WalkContinue, nil
				}
				switch node := n.(type) {
				case *ast.Heading:
					if node.Level == 1 {
						h1s++
					}
				case *ast.FencedCodeBlock:
					if node.Info == nil {
						t.Errorf("%s: fenced block without a language", file)
						return ast.WalkContinue, nil
					}
					lang := string(node.Info.Segment.Value(content))
					if !slices.Contains(known, lang) {
						t.Errorf("%s: fenced block language %q is not one of %v", file, lang, known)
					}
				}
				return ast.WalkContinue, nil
			})
			if h1s != 1 {
				t.Errorf("%s has %d level-1 headings, want exactly one", file, h1s)
			}
		})
	}
}
