package main

import (
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/and161185/chatcore/internal/client"
)

// transportCreds picks plaintext for local development, TLS otherwise.
func transportCreds(caPath string, skipVerify, plaintext bool) (credentials.TransportCredentials, error) {
	if plaintext {
		return insecure.NewCredentials(), nil
	}
	return client.LoadTLS(caPath, skipVerify)
}
