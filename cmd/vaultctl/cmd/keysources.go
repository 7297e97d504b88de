package cmd

import (
	"bufio"
	"fmt"
	"os"

	"github.com/vaultfile/vaultfile"
)

// promptPassphrase reads a line from stdin without any special masking;
// vaultctl is a thin demonstration front end, not a hardened terminal UI.
func promptPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, nil
}

// resolveKeySources builds the KeySource list for an open/save operation
// from the passphrase prompt plus the optional --keyfile flag (spec §4.1).
func resolveKeySources(keyFilePath string) ([]vaultfile.KeySource, error) {
	pass, err := promptPassphrase("Passphrase: ")
	if err != nil {
		return nil, err
	}
	sources := []vaultfile.KeySource{vaultfile.Passphrase(pass)}
	if keyFilePath != "" {
		kf, err := vaultfile.LoadKeyFile(keyFilePath)
		if err != nil {
			return nil, err
		}
		sources = append(sources, kf)
	}
	return sources, nil
}
