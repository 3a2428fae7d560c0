package main

import (
	"os"

	"github.com/sagarc03/camupload/clientcli"
	"github.com/spf13/cobra"
)

var (
	pushSite        string
	pushCamera      string
	pushContentType string
)

var pushCmd = &cobra.Command{
	Use:   "push <file|dir|->...",
	Short: "Push images to the server",
	Long: `Push one or more JPEG images to the server as a camera would.

Directories are walked and every .jpg/.jpeg file below them is pushed.
Use "-" to read a single image from standard input.

The server stores each image under <site>/<camera>/YYYY/MM/DD/HH/ using its
own clock; an empty site or camera falls back to the server defaults.

Examples:
  camupload-cli push --site hq --camera lobby ./snapshot.jpg
  camupload-cli push -t s3cret ./captures/
  curl -s http://cam.local/snapshot.jpg | camupload-cli push --site hq -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPush,
}

func init() {
	pushCmd.Flags().StringVar(&pushSite, "site", "", "site path segment (env: CAMUPLOAD_SITE)")
	pushCmd.Flags().StringVar(&pushCamera, "camera", "", "camera path segment (env: CAMUPLOAD_CAMERA)")
	pushCmd.Flags().StringVar(&pushContentType, "content-type", "", "override content type (default: image/jpeg)")
}

func runPush(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	client, err := clientcli.New(cfg)
	if err != nil {
		return err
	}

	site := pushSite
	if site == "" {
		site = cfg.Site
	}
	camera := pushCamera
	if camera == "" {
		camera = cfg.Camera
	}

	formatter := getFormatter()

	var results []clientcli.PushResult
	if len(args) == 1 && args[0] == "-" {
		result, pushErr := client.Push(cmd.Context(), clientcli.PushOptions{
			Reader:      os.Stdin,
			Site:        site,
			Camera:      camera,
			ContentType: pushContentType,
		})
		if pushErr != nil {
			_ = formatter.FormatError(os.Stderr, pushErr)
			return pushErr
		}
		results = []clientcli.PushResult{result}
	} else if pushContentType != "" {
		for _, path := range args {
			result, pushErr := client.Push(cmd.Context(), clientcli.PushOptions{
				LocalPath:   path,
				Site:        site,
				Camera:      camera,
				ContentType: pushContentType,
			})
			if pushErr != nil {
				result = clientcli.PushResult{LocalPath: path, Site: site, Camera: camera, Err: pushErr}
			}
			results = append(results, result)
		}
	} else {
		results, err = client.PushPaths(cmd.Context(), args, site, camera)
		if err != nil {
			_ = formatter.FormatError(os.Stderr, err)
			return err
		}
	}

	if err := formatter.FormatPush(os.Stdout, results); err != nil {
		return err
	}

	// Check for any errors in results
	for i := range results {
		if results[i].Err != nil {
			return results[i].Err
		}
	}

	return nil
}
