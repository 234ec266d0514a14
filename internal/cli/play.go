package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	tempoerrors "github.com/soverby/tempo/internal/errors"
	"github.com/soverby/tempo/internal/library"
	"github.com/soverby/tempo/internal/spotify/client"
	"github.com/soverby/tempo/internal/spotify/player"
	"github.com/soverby/tempo/internal/wizard"
)

var (
	playTo       string
	playAlbum    bool
	playPlaylist bool
	playArtist   bool
	playURI      string
	playShuffle  bool
)

var playCmd = &cobra.Command{
	Use:   "play [query]",
	Short: "Start or resume playback",
	Long: `Start playback of a track, album, playlist, or artist.
Without arguments, resumes current playback; if nothing is loaded and
the terminal is interactive, opens the search wizard instead.

Track queries check your library first, so tagged tracks play with
their BPM shown.

Examples:
  tempo play                      # Resume playback
  tempo play "bohemian rhapsody"  # Play from library, else search Spotify
  tempo play --album "discovery"  # Search and play an album
  tempo play --uri spotify:track:xxx
  tempo play --to "Kitchen"       # Play on a specific device`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playTo, "to", "", "Target device name or ID")
	playCmd.Flags().BoolVar(&playAlbum, "album", false, "Search for albums")
	playCmd.Flags().BoolVar(&playPlaylist, "playlist", false, "Search for playlists")
	playCmd.Flags().BoolVar(&playArtist, "artist", false, "Search for artists")
	playCmd.Flags().StringVar(&playURI, "uri", "", "Play specific Spotify URI")
	playCmd.Flags().BoolVar(&playShuffle, "shuffle", false, "Enable shuffle mode")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	spotifyClient, err := getSpotifyClient()
	if err != nil {
		return err
	}

	p := player.New(spotifyClient)

	// Set target device if specified
	if playTo != "" {
		deviceID, err := resolveDevice(ctx, spotifyClient, playTo)
		if err != nil {
			return err
		}
		p.SetDevice(deviceID)
	}

	// Set shuffle if requested
	if playShuffle {
		if err := spotifyClient.SetShuffle(ctx, true, ""); err != nil {
			if Verbose() {
				fmt.Fprintf(os.Stderr, "Warning: could not enable shuffle: %v\n", err)
			}
		}
	}

	if playURI != "" {
		return playByURI(ctx, p, playURI)
	}

	query := strings.Join(args, " ")
	if query == "" {
		return resumeOrSearch(ctx, spotifyClient, p)
	}

	// Context searches bypass the library.
	if playAlbum || playPlaylist || playArtist {
		return searchAndPlay(ctx, spotifyClient, p, query)
	}

	// Track queries check the library first: DJs play what they tagged.
	if entry, ok := libraryMatch(query); ok {
		if err := p.PlayTrack(ctx, entry.URI); err != nil {
			return fmt.Errorf("failed to play track: %w", err)
		}
		outputPlayTrack(entry.Title, entry.Artist, entry.URI, entry.BPM)
		return nil
	}

	return searchAndPlay(ctx, spotifyClient, p, query)
}

// resumeOrSearch resumes the loaded track, or opens the search wizard
// when nothing is loaded and the terminal is interactive.
func resumeOrSearch(ctx context.Context, c *client.Client, p *player.Player) error {
	state, stateErr := p.GetState(ctx)
	if stateErr == nil && state.HasTrack() {
		if err := p.Play(ctx); err != nil {
			return fmt.Errorf("failed to resume playback: %w", err)
		}
		if JSONOutput() {
			_ = json.NewEncoder(os.Stdout).Encode(map[string]string{"status": "playing"})
		} else {
			fmt.Println("▶ Resumed playback")
		}
		return nil
	}

	if !wizard.IsTerminal() || JSONOutput() {
		if stateErr != nil {
			return fmt.Errorf("failed to get playback state: %w", stateErr)
		}
		return tempoerrors.E(tempoerrors.KindNoDevice, "nothing is playing")
	}

	store, _ := openLibrary()
	result, err := wizard.RunSearch(searchBridge(ctx, c, store))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if result == nil {
		return nil
	}
	return playWizardResult(ctx, p, result)
}

func playByURI(ctx context.Context, p *player.Player, uri string) error {
	var err error
	if strings.HasPrefix(uri, "spotify:track:") {
		err = p.PlayTrack(ctx, uri)
	} else {
		err = p.PlayContext(ctx, uri, 0)
	}
	if err != nil {
		return fmt.Errorf("failed to play URI: %w", err)
	}

	bpm := libraryBPM(strings.TrimPrefix(uri, "spotify:track:"))
	if JSONOutput() {
		output := map[string]interface{}{
			"status": "playing",
			"uri":    uri,
		}
		if bpm > 0 {
			output["bpm"] = bpm
		}
		_ = json.NewEncoder(os.Stdout).Encode(output)
	} else if bpm > 0 {
		fmt.Printf("▶ Playing %s [%.0f BPM]\n", uri, bpm)
	} else {
		fmt.Printf("▶ Playing %s\n", uri)
	}

	return nil
}

func searchAndPlay(ctx context.Context, c *client.Client, p *player.Player, query string) error {
	var searchTypes []client.SearchType

	if playAlbum {
		searchTypes = []client.SearchType{client.SearchTypeAlbum}
	} else if playPlaylist {
		searchTypes = []client.SearchType{client.SearchTypePlaylist}
	} else if playArtist {
		searchTypes = []client.SearchType{client.SearchTypeArtist}
	} else {
		searchTypes = []client.SearchType{client.SearchTypeTrack}
	}

	results, err := c.Search(ctx, client.SearchOptions{
		Query: query,
		Types: searchTypes,
		Limit: 1,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	// Play the first result
	if playAlbum && results.Albums != nil && len(results.Albums.Items) > 0 {
		album := results.Albums.Items[0]
		if err := p.PlayContext(ctx, album.URI, 0); err != nil {
			return fmt.Errorf("failed to play album: %w", err)
		}
		outputPlayResult("album", album.Name, album.Artists[0].Name, album.URI)
		return nil
	}

	if playPlaylist && results.Playlists != nil && len(results.Playlists.Items) > 0 {
		playlist := results.Playlists.Items[0]
		if err := p.PlayContext(ctx, playlist.URI, 0); err != nil {
			return fmt.Errorf("failed to play playlist: %w", err)
		}
		outputPlayResult("playlist", playlist.Name, playlist.Owner.DisplayName, playlist.URI)
		return nil
	}

	if playArtist && results.Artists != nil && len(results.Artists.Items) > 0 {
		artist := results.Artists.Items[0]
		if err := p.PlayContext(ctx, artist.URI, 0); err != nil {
			return fmt.Errorf("failed to play artist: %w", err)
		}
		outputPlayResult("artist", artist.Name, "", artist.URI)
		return nil
	}

	if results.Tracks != nil && len(results.Tracks.Items) > 0 {
		track := results.Tracks.Items[0]
		if err := p.PlayTrack(ctx, track.URI); err != nil {
			return fmt.Errorf("failed to play track: %w", err)
		}
		outputPlayTrack(track.Name, track.Artists[0].Name, track.URI, libraryBPM(track.ID))
		return nil
	}

	return fmt.Errorf("no results found for '%s'", query)
}

func playWizardResult(ctx context.Context, p *player.Player, result *wizard.SearchResult) error {
	if result.Type == wizard.SearchTracks {
		if err := p.PlayTrack(ctx, result.URI); err != nil {
			return fmt.Errorf("failed to play track: %w", err)
		}
		outputPlayTrack(result.Title, result.Subtitle, result.URI, result.BPM)
		return nil
	}

	name := searchTypeName(result.Type)
	if err := p.PlayContext(ctx, result.URI, 0); err != nil {
		return fmt.Errorf("failed to play %s: %w", name, err)
	}
	outputPlayResult(name, result.Title, result.Subtitle, result.URI)
	return nil
}

func outputPlayTrack(title, artist, uri string, bpm float64) {
	if JSONOutput() {
		output := map[string]interface{}{
			"status": "playing",
			"type":   "track",
			"name":   title,
			"artist": artist,
			"uri":    uri,
		}
		if bpm > 0 {
			output["bpm"] = bpm
		}
		_ = json.NewEncoder(os.Stdout).Encode(output)
		return
	}

	if bpm > 0 {
		fmt.Printf("▶ Playing track: %s by %s [%.0f BPM]\n", title, artist, bpm)
	} else {
		fmt.Printf("▶ Playing track: %s by %s\n", title, artist)
	}
}

func outputPlayResult(itemType, name, artist, uri string) {
	if JSONOutput() {
		output := map[string]interface{}{
			"status": "playing",
			"type":   itemType,
			"name":   name,
			"uri":    uri,
		}
		if artist != "" {
			output["artist"] = artist
		}
		_ = json.NewEncoder(os.Stdout).Encode(output)
	} else {
		if artist != "" {
			fmt.Printf("▶ Playing %s: %s by %s\n", itemType, name, artist)
		} else {
			fmt.Printf("▶ Playing %s: %s\n", itemType, name)
		}
	}
}

// libraryMatch finds a library entry whose title or artist matches the
// query. Exact title matches win over substring matches.
func libraryMatch(query string) (library.Entry, bool) {
	store, err := openLibrary()
	if err != nil {
		return library.Entry{}, false
	}

	q := strings.ToLower(query)
	var partial *library.Entry
	for _, e := range store.List() {
		title := strings.ToLower(e.Title)
		if title == q {
			return e, true
		}
		if partial == nil && (strings.Contains(title, q) || strings.Contains(strings.ToLower(e.Artist), q)) {
			match := e
			partial = &match
		}
	}
	if partial != nil {
		return *partial, true
	}
	return library.Entry{}, false
}

// libraryBPM returns the stored tempo for a track id, or 0.
func libraryBPM(trackID string) float64 {
	store, err := openLibrary()
	if err != nil {
		return 0
	}
	bpm, _ := store.BPM(trackID)
	return bpm
}

func searchTypeName(t wizard.SearchType) string {
	switch t {
	case wizard.SearchTracks:
		return "track"
	case wizard.SearchAlbums:
		return "album"
	case wizard.SearchArtists:
		return "artist"
	case wizard.SearchPlaylists:
		return "playlist"
	default:
		return "item"
	}
}

// searchBridge adapts the web API search to the wizard's callback,
// annotating track results with library BPM.
func searchBridge(ctx context.Context, c *client.Client, store *library.Store) wizard.SearchFunc {
	return func(query string, searchType wizard.SearchType) ([]wizard.SearchResult, error) {
		var types []client.SearchType
		switch searchType {
		case wizard.SearchTracks:
			types = []client.SearchType{client.SearchTypeTrack}
		case wizard.SearchAlbums:
			types = []client.SearchType{client.SearchTypeAlbum}
		case wizard.SearchArtists:
			types = []client.SearchType{client.SearchTypeArtist}
		case wizard.SearchPlaylists:
			types = []client.SearchType{client.SearchTypePlaylist}
		default:
			types = []client.SearchType{
				client.SearchTypeTrack,
				client.SearchTypeAlbum,
				client.SearchTypeArtist,
				client.SearchTypePlaylist,
			}
		}

		resp, err := c.Search(ctx, client.SearchOptions{
			Query: query,
			Types: types,
			Limit: 10,
		})
		if err != nil {
			return nil, err
		}

		var results []wizard.SearchResult
		if resp.Tracks != nil {
			for _, t := range resp.Tracks.Items {
				r := wizard.SearchResult{
					ID:       t.ID,
					URI:      t.URI,
					Title:    t.Name,
					Subtitle: t.Artists[0].Name,
					Type:     wizard.SearchTracks,
				}
				if store != nil {
					if bpm, ok := store.BPM(t.ID); ok {
						r.BPM = bpm
					}
				}
				results = append(results, r)
			}
		}
		if resp.Albums != nil {
			for _, a := range resp.Albums.Items {
				subtitle := ""
				if len(a.Artists) > 0 {
					subtitle = a.Artists[0].Name
				}
				results = append(results, wizard.SearchResult{
					ID:       a.ID,
					URI:      a.URI,
					Title:    a.Name,
					Subtitle: subtitle,
					Type:     wizard.SearchAlbums,
				})
			}
		}
		if resp.Artists != nil {
			for _, a := range resp.Artists.Items {
				results = append(results, wizard.SearchResult{
					ID:       a.ID,
					URI:      a.URI,
					Title:    a.Name,
					Subtitle: "Artist",
					Type:     wizard.SearchArtists,
				})
			}
		}
		if resp.Playlists != nil {
			for _, pl := range resp.Playlists.Items {
				results = append(results, wizard.SearchResult{
					ID:       pl.ID,
					URI:      pl.URI,
					Title:    pl.Name,
					Subtitle: "by " + pl.Owner.DisplayName,
					Type:     wizard.SearchPlaylists,
				})
			}
		}
		return results, nil
	}
}

// resolveDevice maps a device name or ID to a device ID. Exact ID
// matches win, then case-insensitive name matches, then partial name
// matches.
func resolveDevice(ctx context.Context, c *client.Client, nameOrID string) (string, error) {
	devices, err := c.GetDevices(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get devices: %w", err)
	}

	for _, d := range devices {
		if d.ID == nameOrID {
			return d.ID, nil
		}
	}

	nameLower := strings.ToLower(nameOrID)
	for _, d := range devices {
		if strings.ToLower(d.Name) == nameLower {
			return d.ID, nil
		}
	}

	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), nameLower) {
			return d.ID, nil
		}
	}

	return "", tempoerrors.Wrap(tempoerrors.KindInput,
		fmt.Sprintf("device '%s'", nameOrID), tempoerrors.ErrDeviceNotFound)
}
