package payment

import (
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SignParams produces the provider signature over the request parameters:
// keys sorted ascending, empty values skipped, joined as k=v&k=v, hashed per
// signType (RSA2 is SHA256, RSA is SHA1) and signed PKCS1v15.
func SignParams(params map[string]string, privateKeyPEM, signType string) (string, error) {
	key, err := parsePrivateKey(privateKeyPEM)
	if err != nil {
		return "", err
	}

	hash, hashed, err := digest(signContent(params), signType)
	if err != nil {
		return "", err
	}

	sig, err := rsa.SignPKCS1v15(nil, key, hash, hashed)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyNotification checks the authenticity of an asynchronous notification
// payload against the provider's public key. A missing or undecodable sign
// field, or a signature mismatch, yields false; it never panics past the
// boundary. The charset parameter is part of the provider contract but only
// UTF-8 payloads reach this process, so it does not alter the content bytes.
func VerifyNotification(params map[string]string, publicKeyPEM, charset, signType string) bool {
	sign, ok := params["sign"]
	if !ok || sign == "" {
		return false
	}

	sig, err := base64.StdEncoding.DecodeString(sign)
	if err != nil {
		return false
	}

	key, err := parsePublicKey(publicKeyPEM)
	if err != nil {
		return false
	}

	hash, hashed, err := digest(signContent(params), signType)
	if err != nil {
		return false
	}

	return rsa.VerifyPKCS1v15(key, hash, hashed, sig) == nil
}

// signContent builds the canonical string: sorted keys, sign and sign_type
// excluded, empty values skipped.
func signContent(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == "sign" || k == "sign_type" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	return strings.Join(pairs, "&")
}

func digest(content, signType string) (crypto.Hash, []byte, error) {
	switch signType {
	case "RSA2", "":
		sum := sha256.Sum256([]byte(content))
		return crypto.SHA256, sum[:], nil
	case "RSA":
		sum := sha1.Sum([]byte(content))
		return crypto.SHA1, sum[:], nil
	default:
		return 0, nil, fmt.Errorf("unsupported sign type %q", signType)
	}
}

func parsePrivateKey(keyPEM string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(armor(keyPEM, "PRIVATE KEY")))
	if block == nil {
		return nil, errors.New("invalid private key PEM")
	}

	// Provider consoles hand out PKCS8; older merchant keys are PKCS1.
	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, errors.New("private key is not RSA")
		}
		return rsaKey, nil
	}
	return x509.ParsePKCS1PrivateKey(block.Bytes)
}

func parsePublicKey(keyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(armor(keyPEM, "PUBLIC KEY")))
	if block == nil {
		return nil, errors.New("invalid public key PEM")
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not RSA")
	}
	return rsaKey, nil
}

// armor re-wraps a bare base64 key in PEM markers; config files often store
// keys without them.
func armor(key, label string) string {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "-----BEGIN") {
		return key
	}
	return "-----BEGIN " + label + "-----\n" + key + "\n-----END " + label + "-----"
}
