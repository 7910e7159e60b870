package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/jmccarv/subsolve/internal/cipher"
	"github.com/spf13/cobra"
)

var encryptFlags struct {
	key  string
	seed int64
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [FILE]",
	Short: "Encode text with a substitution key",
	Long: `Encode every line of FILE or stdin with a substitution key. The key is
taken from --key, either as 26 letters or as mappings like "ABC=XYZ", or drawn
at random. The key is printed to stderr, the ciphertext to stdout, one line
per input line, ready for "subsolve solve".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEncrypt,
}

func init() {
	encryptCmd.Flags().StringVarP(&encryptFlags.key, "key", "k", "", "Substitution key (random if empty)")
	encryptCmd.Flags().Int64Var(&encryptFlags.seed, "seed", 0, "Seed for the random key (0 = time based)")
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	key, err := encryptionKey()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "key:", key.Mappings())

	var in io.ReadCloser = os.Stdin
	if len(args) > 0 {
		if in, err = os.Open(args[0]); err != nil {
			return err
		}
	}
	defer in.Close()

	return encryptLines(in, cmd.OutOrStdout(), key)
}

func encryptionKey() (cipher.Key, error) {
	if encryptFlags.key != "" {
		return cipher.ParseKey(encryptFlags.key)
	}

	seed := encryptFlags.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return cipher.RandomKey(rand.New(rand.NewSource(seed))), nil
}

func encryptLines(r io.Reader, w io.Writer, key cipher.Key) error {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxCryptogramSize)

	bw := bufio.NewWriter(w)
	for s.Scan() {
		fmt.Fprintln(bw, cipher.Apply(s.Text(), key))
	}
	if err := s.Err(); err != nil {
		return err
	}
	return bw.Flush()
}
