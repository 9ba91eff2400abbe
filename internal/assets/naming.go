package assets

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"path"
	"regexp"
	"strings"
)

// HashLength is the number of hex digits kept from a content hash.
const HashLength = 20

var fontExt = regexp.MustCompile(`(?i)\.woff2?$`)

// IsFont reports whether name is a web font that keeps its original name
// so templates can preload it.
func IsFont(name string) bool { return fontExt.MatchString(name) }

// ContentHash returns the truncated hex SHA-256 of data.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:HashLength]
}

// OutputName is the emitted file name for an asset: "[name].[ext]" for
// fonts and "[contenthash].[ext]" for everything else.
func OutputName(name string, data []byte) string {
	base := path.Base(name)
	if IsFont(base) {
		return base
	}
	return ContentHash(data) + strings.ToLower(path.Ext(base))
}

var identUnsafe = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// ClassIdent is the scoped name of CSS class local declared in file.
// Release builds (buildID set) use a five character hash; development builds
// use a readable "[path][name]__[local]" form.
func ClassIdent(buildID, file, local string) string {
	file = path.Clean(strings.TrimPrefix(file, "./"))
	if buildID != "" {
		sum := sha256.Sum256([]byte(file + "\x00" + local))
		id := base64.RawURLEncoding.EncodeToString(sum[:])[:5]
		// Identifiers may not start with a digit or hyphen.
		if id[0] >= '0' && id[0] <= '9' || id[0] == '-' {
			id = "_" + id[1:]
		}
		return id
	}
	dir := path.Dir(file)
	name := strings.TrimSuffix(path.Base(file), path.Ext(file))
	name = strings.TrimSuffix(name, ".module")
	prefix := ""
	if dir != "." {
		prefix = identUnsafe.ReplaceAllString(dir, "-") + "-"
	}
	return prefix + identUnsafe.ReplaceAllString(name, "-") + "__" + local
}
