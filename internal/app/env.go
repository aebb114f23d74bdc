package app

import (
    "errors"
    "os"
    "strings"

    "github.com/joho/godotenv"
)

// LoadEnvFiles loads one or more dotenv files into the process environment.
// Later files override earlier ones and missing files are skipped. Variables
// already present in the environment before the first file are kept.
func LoadEnvFiles(paths ...string) error {
    preset := map[string]bool{}
    for _, kv := range os.Environ() {
        if i := strings.IndexByte(kv, '='); i > 0 && kv[i+1:] != "" {
            preset[kv[:i]] = true
        }
    }
    for _, p := range paths {
        if strings.TrimSpace(p) == "" {
            continue
        }
        values, err := godotenv.Read(p)
        if err != nil {
            // Missing files are not fatal; continue to next path
            if errors.Is(err, os.ErrNotExist) {
                continue
            }
            return err
        }
        for k, v := range values {
            if preset[k] {
                continue
            }
            if err := os.Setenv(k, v); err != nil {
                return err
            }
        }
    }
    return nil
}
