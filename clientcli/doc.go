// Package clientcli provides a client library for pushing images to a camupload
// server, the same way a network camera does.
//
// It sends each image as an HTTP POST with Content-Type image/jpeg to
// <endpoint>/<site>/<camera>, authenticated with a token query parameter or
// HTTP basic credentials. The package includes profile-based configuration
// for managing connections to multiple servers.
//
// # Basic Usage
//
// Create a client and push an image:
//
//	cfg := &clientcli.Config{
//		Endpoint: "http://localhost:9980",
//		Token:    "s3cret",
//	}
//
//	client, err := clientcli.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.Push(ctx, clientcli.PushOptions{
//		LocalPath: "./snapshot.jpg",
//		Site:      "hq",
//		Camera:    "lobby",
//	})
//
// Server rejections are returned as *APIError and match the sentinels
// ErrBadRequest, ErrUnauthorized, ErrTooLarge and ErrServer with errors.Is.
//
// # Profile Configuration
//
// Use profiles to manage multiple server configurations:
//
//	configFile, err := clientcli.LoadConfigFile(clientcli.DefaultConfigPath())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := configFile.GetProfile("gate")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := clientcli.New(clientcli.ConfigFromProfile(profile))
//
// # Output Formatting
//
// Use formatters for human-readable or JSON output:
//
//	formatter := clientcli.NewFormatter(jsonOutput, quiet)
//	formatter.FormatPush(os.Stdout, results)
package clientcli
