package certs

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CertManager loads extra trust roots from a directory of PEM files.
type CertManager struct {
	certDir string
}

// NewCertManager creates a new CertManager for the given directory.
func NewCertManager(certDir string) *CertManager {
	return &CertManager{certDir: certDir}
}

// LoadCertificates loads all .crt and .pem certificates from the cert
// directory. A file may hold several PEM blocks.
func (cm *CertManager) LoadCertificates() ([]*x509.Certificate, error) {
	var certs []*x509.Certificate

	err := filepath.Walk(cm.certDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasSuffix(info.Name(), ".crt") || strings.HasSuffix(info.Name(), ".pem") {
			loaded, err := cm.loadCertificates(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			certs = append(certs, loaded...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return certs, nil
}

// Pool returns the system roots plus every certificate in the directory.
// Expired certificates are skipped.
func (cm *CertManager) Pool() (*x509.CertPool, error) {
	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	certs, err := cm.LoadCertificates()
	if err != nil {
		return nil, err
	}
	for _, c := range certs {
		if cm.IsExpired(c) {
			continue
		}
		pool.AddCert(c)
	}
	return pool, nil
}

// TLSConfig builds a client TLS configuration trusting Pool. An empty
// directory yields nil, meaning the Go defaults.
func TLSConfig(certDir string) (*tls.Config, error) {
	if certDir == "" {
		return nil, nil
	}
	pool, err := NewCertManager(certDir).Pool()
	if err != nil {
		return nil, err
	}
	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

func (cm *CertManager) loadCertificates(path string) ([]*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var certs []*x509.Certificate
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, errors.New("failed to parse certificate PEM")
	}
	return certs, nil
}

// IsExpired checks if a certificate is expired.
func (cm *CertManager) IsExpired(cert *x509.Certificate) bool {
	return cert.NotAfter.Before(time.Now())
}
