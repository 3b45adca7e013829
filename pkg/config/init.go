package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/nikogura/cinescope/pkg/recommend"
)

const header = `# CineScope configuration.
# Environment variables override this file, e.g. CINESCOPE_PORT, CINESCOPE_CATALOG,
# CINESCOPE_LOG_LEVEL and ANTHROPIC_API_KEY.
`

// InitConfig writes a starter configuration file with every default filled in
// and the built-in moods spelled out for editing.
func InitConfig(configPath string) (path string, err error) {
	path = configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return path, err
		}
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return path, err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return path, err
	}

	starter := Default()
	starter.Moods = recommend.DefaultTable().Moods()

	var data []byte
	data, err = yamlv3.Marshal(starter)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return path, err
	}

	err = os.WriteFile(path, append([]byte(header), data...), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return path, err
	}

	return path, err
}
