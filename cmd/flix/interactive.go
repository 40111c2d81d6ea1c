package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vklink/flix/internal/browse"
	"github.com/vklink/flix/internal/catalog"
)

const interactivePageSize = 20

// runInteractiveBrowse drives a browse.Browser against the server: pick
// categories by number, page with "m", search with "/query". Search is
// debounced and stale responses are discarded, so rapid-fire queries
// behave the same here as in a typing UI.
func runInteractiveBrowse(client *Client, mediaType string) error {
	ctx := context.Background()
	src := &apiSource{client: client}
	browser := browse.New(src, interactivePageSize)

	var tf *catalog.MediaType
	if mediaType != "" {
		t := catalog.ParseMediaType(mediaType)
		tf = &t
	}

	cats, err := src.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("categories failed: %w", err)
	}
	if tf != nil {
		filtered := cats[:0:0]
		for _, c := range cats {
			if c.Type == *tf {
				filtered = append(filtered, c)
			}
		}
		cats = filtered
	}

	for i, c := range cats {
		fmt.Printf("  %3d. %-10s %s\n", i+1, c.Type, c.Name)
	}
	fmt.Println("\nCommands: <number> select category, m next page, /text search, q quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "q" || line == "quit":
			return nil

		case line == "m":
			if err := browser.LoadMore(ctx); err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			printBrowseState(browser.State())

		case strings.HasPrefix(line, "/"):
			query := strings.TrimPrefix(line, "/")
			if utf8.RuneCountInString(query) < 2 {
				fmt.Println("query too short")
				continue
			}
			// Clear first so the readiness poll below cannot pick up a
			// previous search's results.
			browser.SetQuery(ctx, "", tf)
			browser.SetQuery(ctx, query, tf)
			printSearchResults(browser)

		default:
			n, err := strconv.Atoi(line)
			if err != nil || n < 1 || n > len(cats) {
				fmt.Println("unknown command")
				continue
			}
			if err := browser.SelectCategory(ctx, cats[n-1]); err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			printBrowseState(browser.State())
		}
	}
	return scanner.Err()
}

func printBrowseState(st browse.State) {
	if st.Category == nil {
		fmt.Println("No category selected.")
		return
	}
	for _, it := range st.Items {
		printItem(responseFromItem(it))
	}
	fmt.Printf("\n%s: page %d (%d items)", st.Category.Name, st.Page, len(st.Items))
	if st.HasMore {
		fmt.Print("  'm' for more")
	}
	fmt.Println()
}

// printSearchResults waits out the debounce and prints what landed.
func printSearchResults(browser *browse.Browser) {
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		st := browser.State()
		if st.SearchActive {
			if st.SearchErr != nil {
				fmt.Printf("search failed: %v\n", st.SearchErr)
				return
			}
			if len(st.SearchResults) == 0 {
				fmt.Println("No results.")
				return
			}
			for _, it := range st.SearchResults {
				printItem(responseFromItem(it))
			}
			fmt.Printf("\n%d results\n", len(st.SearchResults))
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	fmt.Println("search timed out")
}
