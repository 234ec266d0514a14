package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	tempoerrors "github.com/soverby/tempo/internal/errors"
	"github.com/soverby/tempo/internal/library"
	"github.com/soverby/tempo/internal/spotify/client"
	"github.com/soverby/tempo/internal/wizard"
)

var libraryAddBPM float64

var libraryCmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"lib"},
	Short:   "Manage your track library",
	Long: `Manage the local track library. Library tracks carry a BPM tag
that the dashboard, status, and tail commands display alongside the
track.`,
	RunE: runLibraryList,
}

var libraryAddCmd = &cobra.Command{
	Use:   "add <query>",
	Short: "Add a track to the library",
	Long: `Search Spotify for a track and add it to the library. When the
search is ambiguous and the terminal is interactive, a picker opens.

The BPM tag defaults to Spotify's audio-features tempo; pass --bpm to
override it.

Examples:
  tempo library add "one more time"
  tempo library add --bpm 123 "one more time"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLibraryAdd,
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List library tracks",
	Long:  `Lists all library tracks with their BPM tags.`,
	RunE:  runLibraryList,
}

var libraryRemoveCmd = &cobra.Command{
	Use:     "remove <track>",
	Aliases: []string{"rm"},
	Short:   "Remove a track from the library",
	Long:    `Remove a track by ID, title, or unique title/artist match.`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runLibraryRemove,
}

var libraryBPMCmd = &cobra.Command{
	Use:   "bpm <track> [bpm]",
	Short: "Tag a library track with a tempo",
	Long: `Record the tempo for a stored track. Without a value, prompts
for one when the terminal is interactive.

Examples:
  tempo library bpm "one more time" 123
  tempo library bpm 4uLU6hMCjMI75M1A2tKUQC 97.5`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runLibraryBPM,
}

func init() {
	libraryAddCmd.Flags().Float64Var(&libraryAddBPM, "bpm", 0, "Tempo in beats per minute (skips the audio-features lookup)")

	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryRemoveCmd)
	libraryCmd.AddCommand(libraryBPMCmd)
	rootCmd.AddCommand(libraryCmd)
}

func runLibraryAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	spotifyClient, err := getSpotifyClient()
	if err != nil {
		return err
	}

	store, err := openLibrary()
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results, err := spotifyClient.Search(ctx, client.SearchOptions{
		Query: query,
		Types: []client.SearchType{client.SearchTypeTrack},
		Limit: 5,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if results.Tracks == nil || len(results.Tracks.Items) == 0 {
		return fmt.Errorf("no tracks found for '%s'", query)
	}

	entry := entryFromWireTrack(results.Tracks.Items[0])

	// Ambiguous searches get the picker when the terminal allows it.
	if len(results.Tracks.Items) > 1 && wizard.IsTerminal() && !JSONOutput() {
		result, err := wizard.RunSearchQuery(searchBridge(ctx, spotifyClient, store), query)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		if result == nil {
			return nil
		}
		if result.Type != wizard.SearchTracks {
			return tempoerrors.E(tempoerrors.KindInput, "only tracks can be added to the library")
		}

		entry = library.Entry{
			ID:     result.ID,
			URI:    result.URI,
			Title:  result.Title,
			Artist: result.Subtitle,
		}
		for _, t := range results.Tracks.Items {
			if t.ID == result.ID {
				entry = entryFromWireTrack(t)
				break
			}
		}
	}

	bpm := libraryAddBPM
	if bpm == 0 {
		if features, err := spotifyClient.GetAudioFeatures(ctx, entry.ID); err == nil {
			bpm = features.Tempo
		} else if Verbose() {
			fmt.Fprintf(os.Stderr, "Warning: could not fetch audio features: %v\n", err)
		}
	}
	if bpm == 0 && wizard.IsTerminal() && !JSONOutput() {
		bpm, err = promptBPM()
		if err != nil {
			return err
		}
	}
	entry.BPM = bpm

	if err := store.Add(entry); err != nil {
		return fmt.Errorf("failed to save library: %w", err)
	}

	if JSONOutput() {
		output := map[string]interface{}{
			"status": "added",
			"id":     entry.ID,
			"uri":    entry.URI,
			"title":  entry.Title,
			"artist": entry.Artist,
		}
		if entry.BPM > 0 {
			output["bpm"] = entry.BPM
		}
		_ = json.NewEncoder(os.Stdout).Encode(output)
	} else if entry.BPM > 0 {
		fmt.Printf("Added to library: %s by %s [%s BPM]\n", entry.Title, entry.Artist, formatBPM(entry.BPM))
	} else {
		fmt.Printf("Added to library: %s by %s\n", entry.Title, entry.Artist)
	}

	return nil
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}

	entries := store.List()
	if len(entries) == 0 {
		if JSONOutput() {
			_ = json.NewEncoder(os.Stdout).Encode([]library.Entry{})
		} else {
			fmt.Println("Library is empty")
			fmt.Println("Add tracks with 'tempo library add <query>'")
		}
		return nil
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}

	table := NewTable("#", "TITLE", "ARTIST", "BPM", "ADDED")
	for i, e := range entries {
		bpm := "-"
		if e.BPM > 0 {
			bpm = formatBPM(e.BPM)
		}
		table.Row(
			strconv.Itoa(i+1),
			TruncateString(e.Title, 40),
			TruncateString(e.Artist, 30),
			bpm,
			humanize.Time(e.AddedAt),
		)
	}
	table.Flush()

	fmt.Printf("\n%d tracks · %s\n", len(entries), store.Path())
	return nil
}

func runLibraryRemove(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}

	entry, err := findLibraryEntry(store, strings.Join(args, " "))
	if err != nil {
		return err
	}

	if err := store.Remove(entry.ID); err != nil {
		return fmt.Errorf("failed to remove track: %w", err)
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{
			"status": "removed",
			"id":     entry.ID,
			"title":  entry.Title,
		})
	} else {
		fmt.Printf("Removed from library: %s by %s\n", entry.Title, entry.Artist)
	}

	return nil
}

func runLibraryBPM(cmd *cobra.Command, args []string) error {
	store, err := openLibrary()
	if err != nil {
		return err
	}

	entry, err := findLibraryEntry(store, args[0])
	if err != nil {
		return err
	}

	var bpm float64
	if len(args) == 2 {
		bpm, err = strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid bpm: %s", args[1])
		}
	} else {
		if !wizard.IsTerminal() || JSONOutput() {
			return tempoerrors.E(tempoerrors.KindInput, "bpm value required")
		}
		bpm, err = promptBPM()
		if err != nil {
			return err
		}
		if bpm == 0 {
			return nil
		}
	}

	if err := store.SetBPM(entry.ID, bpm); err != nil {
		return err
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"status": "tagged",
			"id":     entry.ID,
			"bpm":    bpm,
		})
	} else {
		fmt.Printf("Tagged %s at %s BPM\n", entry.Title, formatBPM(bpm))
	}

	return nil
}

// openLibrary opens and loads the configured library store.
func openLibrary() (*library.Store, error) {
	store, err := library.NewStore(cfg.Library.Path)
	if err != nil {
		return nil, err
	}
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

// findLibraryEntry resolves a track by ID, exact title, or unique
// substring match on title or artist.
func findLibraryEntry(store *library.Store, query string) (library.Entry, error) {
	if e, ok := store.Get(query); ok {
		return e, nil
	}

	q := strings.ToLower(query)
	var matches []library.Entry
	for _, e := range store.List() {
		title := strings.ToLower(e.Title)
		if title == q {
			return e, nil
		}
		if strings.Contains(title, q) || strings.Contains(strings.ToLower(e.Artist), q) {
			matches = append(matches, e)
		}
	}

	switch len(matches) {
	case 0:
		return library.Entry{}, tempoerrors.ErrTrackNotFound
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = fmt.Sprintf("'%s' by %s", m.Title, m.Artist)
		}
		return library.Entry{}, tempoerrors.E(tempoerrors.KindInput,
			fmt.Sprintf("multiple tracks match '%s': %s", query, strings.Join(names, ", ")))
	}
}

func entryFromWireTrack(t client.Track) library.Entry {
	artist := ""
	if len(t.Artists) > 0 {
		artist = t.Artists[0].Name
	}
	return library.Entry{
		ID:     t.ID,
		URI:    t.URI,
		Title:  t.Name,
		Artist: artist,
		Album:  t.Album.Name,
	}
}

// promptBPM asks for a tempo. Empty input or a cancelled form skips
// tagging and returns 0.
func promptBPM() (float64, error) {
	var input string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("BPM").
				Description("Tempo in beats per minute (leave empty to skip)").
				Value(&input).
				Validate(validateBPMInput),
		),
	)
	if err := form.Run(); err != nil {
		return 0, nil
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}
	return strconv.ParseFloat(input, 64)
}

func validateBPMInput(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	bpm, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("enter a number")
	}
	if bpm <= 0 || bpm > library.MaxBPM {
		return fmt.Errorf("bpm must be between 1 and %d", library.MaxBPM)
	}
	return nil
}

// formatBPM trims trailing zeros: whole tempos print bare, half-BPM
// values keep one decimal.
func formatBPM(bpm float64) string {
	if bpm == math.Trunc(bpm) {
		return strconv.FormatFloat(bpm, 'f', 0, 64)
	}
	return strconv.FormatFloat(bpm, 'f', 1, 64)
}
