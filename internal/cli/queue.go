package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	tempoerrors "github.com/soverby/tempo/internal/errors"
	"github.com/soverby/tempo/internal/spotify/auth"
	"github.com/soverby/tempo/internal/spotify/client"
	"github.com/soverby/tempo/internal/spotify/player"
)

var queueLimit int

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show or add to the playback queue",
	Long:  `View the upcoming tracks or add a track to the queue.`,
	RunE:  runQueueList,
}

var queueAddCmd = &cobra.Command{
	Use:   "add <query>",
	Short: "Add a track to the queue",
	Long: `Add a track to the queue. Library tracks match first; anything
else is searched on Spotify.

Examples:
  tempo queue add "bohemian rhapsody"
  tempo queue add --uri spotify:track:xxx`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQueueAdd,
}

var queueAddURI string

func init() {
	queueCmd.Flags().IntVarP(&queueLimit, "limit", "l", 20, "Maximum number of tracks to show")
	queueAddCmd.Flags().StringVar(&queueAddURI, "uri", "", "Add specific Spotify URI to queue")

	queueCmd.AddCommand(queueAddCmd)
	rootCmd.AddCommand(queueCmd)
}

func runQueueList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	spotifyClient, err := getSpotifyClient()
	if err != nil {
		return err
	}

	p := player.New(spotifyClient)
	queue, err := p.GetQueue(ctx)
	if err != nil {
		return fmt.Errorf("failed to get queue: %w", err)
	}

	if queue.IsEmpty() {
		if JSONOutput() {
			_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
				"queue":   []interface{}{},
				"message": "Queue is empty",
			})
		} else {
			fmt.Println("Queue is empty")
		}
		return nil
	}

	// Apply limit
	tracks := queue.Tracks
	if queueLimit > 0 && len(tracks) > queueLimit {
		tracks = tracks[:queueLimit]
	}

	if JSONOutput() {
		output := make([]map[string]interface{}, len(tracks))
		for i, t := range tracks {
			output[i] = map[string]interface{}{
				"position": i,
				"title":    t.Title,
				"artist":   t.Artist,
				"album":    t.Album,
				"duration": t.Duration.String(),
				"uri":      t.URI,
			}
		}
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"queue": output,
			"total": len(queue.Tracks),
		})
	}

	// Table output
	fmt.Println("Queue:")
	for i, t := range tracks {
		prefix := "  "
		if i == 0 {
			prefix = "▶ "
		}
		fmt.Printf("%s%d. %s — %s (%s)\n", prefix, i+1, t.Title, t.Artist, FormatDuration(t.Duration))
	}

	if queueLimit > 0 && len(queue.Tracks) > queueLimit {
		fmt.Printf("\n... and %d more tracks\n", len(queue.Tracks)-queueLimit)
	}

	return nil
}

func runQueueAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	spotifyClient, err := getSpotifyClient()
	if err != nil {
		return err
	}

	p := player.New(spotifyClient)

	var uri string
	var trackName string

	switch {
	case queueAddURI != "":
		uri = queueAddURI
		trackName = uri

	default:
		query := strings.Join(args, " ")

		// Library entries win; a tagged track is what the user means.
		if entry, ok := libraryMatch(query); ok {
			uri = entry.URI
			trackName = fmt.Sprintf("%s by %s", entry.Title, entry.Artist)
			break
		}

		results, err := spotifyClient.Search(ctx, client.SearchOptions{
			Query: query,
			Types: []client.SearchType{client.SearchTypeTrack},
			Limit: 1,
		})
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if results.Tracks == nil || len(results.Tracks.Items) == 0 {
			return fmt.Errorf("no tracks found for '%s'", query)
		}

		track := results.Tracks.Items[0]
		uri = track.URI
		trackName = fmt.Sprintf("%s by %s", track.Name, track.Artists[0].Name)
	}

	if err := p.AddToQueue(ctx, uri); err != nil {
		return fmt.Errorf("failed to add to queue: %w", err)
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"status": "added",
			"uri":    uri,
			"name":   trackName,
		})
	} else {
		fmt.Printf("Added to queue: %s\n", trackName)
	}

	return nil
}

func getSpotifyClient() (*client.Client, error) {
	if cfg.Spotify.ClientID == "" {
		return nil, tempoerrors.E(tempoerrors.KindInput,
			"spotify not configured. Set spotify.client_id in ~/.temporc")
	}

	storage, err := auth.NewTokenStorage("")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token storage: %w", err)
	}

	spotifyClient := client.New(cfg.Spotify.ClientID, storage)
	if Verbose() {
		spotifyClient.SetVerbose(true, func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		})
	}
	if err := spotifyClient.LoadToken(); err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	if !spotifyClient.HasToken() {
		return nil, tempoerrors.ErrNotAuthenticated
	}

	return spotifyClient, nil
}
