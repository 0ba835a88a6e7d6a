package knowledge

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/n2code/coursedesk/internal/alias"
)

const workInProgressFileSuffix = ".wip"
const contentOpener = "KNOWLEDGE>>>"
const contentTerminator = "<<<KNOWLEDGE"
const formatSemanticVersion = "1.0.0"
const semVerPattern = `^(?P<major>0|[1-9]\d*)\.(?P<minor>0|[1-9]\d*)\.(?P<patch>0|[1-9]\d*)(?:-(?P<prerelease>(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?(?:\+(?P<buildmetadata>[0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`

var semanticVersionRegex = regexp.MustCompile(semVerPattern)
var semanticVersionMajorSubmatchIndex = semanticVersionRegex.SubexpIndex("major")

var ErrCorrupted = errors.New("knowledge base corrupted")

// save writes to a temporary file first which then replaces the file at path.
func save(fs afero.Fs, path string, aliases *alias.List) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("saving knowledge base failed: %w", err)
		}
	}()

	if err = fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return
	}
	tempPath := path + workInProgressFileSuffix

	file, err := fs.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil { //plausible failure
		return
	}

	compressor, _ := gzip.NewWriterLevel(file, gzip.BestSpeed)
	writeErr := func() error {
		if _, err := io.WriteString(compressor, formatSemanticVersion+"\n"+contentOpener+"\n"); err != nil {
			return err
		}
		encoder := json.NewEncoder(compressor)
		encoder.SetIndent("", "\t")
		if err := encoder.Encode(aliases); err != nil {
			return err
		}
		_, err := io.WriteString(compressor, contentTerminator+"\n")
		return err
	}()
	closeErr := compressor.Close()
	fileCloseErr := file.Close()
	if err = errors.Join(writeErr, closeErr, fileCloseErr); err != nil {
		fs.Remove(tempPath)
		return
	}

	if err = fs.Rename(tempPath, path); err != nil {
		return fmt.Errorf("replacing knowledge base file (%s) with temporary working copy (%s) failed: %w", path, tempPath, err)
	}
	return nil
}

func load(fs afero.Fs, path string) (*alias.List, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decompressor, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	defer decompressor.Close()
	reader := bufio.NewReader(decompressor)

	textUntilNewline := func() (string, error) {
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("%w: unexpected end of data", ErrCorrupted)
		}
		return strings.TrimSuffix(line, "\n"), nil
	}

	fileVersion, err := textUntilNewline()
	if err != nil {
		return nil, err
	}
	fileVersionMatch := semanticVersionRegex.FindStringSubmatch(fileVersion)
	if fileVersionMatch == nil {
		return nil, fmt.Errorf("%w: version not found", ErrCorrupted)
	}
	appVersionMatch := semanticVersionRegex.FindStringSubmatch(formatSemanticVersion)
	if fileVersionMatch[semanticVersionMajorSubmatchIndex] != appVersionMatch[semanticVersionMajorSubmatchIndex] {
		return nil, fmt.Errorf("incompatible persisted knowledge base version: %s", fileVersion)
	}

	for {
		line, err := textUntilNewline()
		if err != nil {
			return nil, err
		}
		if line == contentOpener {
			break
		}
	}

	decoder := json.NewDecoder(reader)
	aliases := alias.NewList()
	if err := decoder.Decode(aliases); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	var termination strings.Builder
	io.Copy(&termination, decoder.Buffered())
	io.Copy(&termination, reader)
	if !strings.HasPrefix(termination.String(), "\n"+contentTerminator) { //newline courtesy of JSON encoder
		return nil, fmt.Errorf("%w: unexpected termination", ErrCorrupted)
	}
	return aliases, nil
}
