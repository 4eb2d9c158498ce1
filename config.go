package teachlang

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is a typed string-keyed settings map, mirroring the teacher's
// path-based configuration style (e.g. "interpreter.max_call_depth")
// instead of a struct with fixed fields, so the CLI and library
// embedders can both extend it without touching this package.
type Config map[string]*cfgVal

// NewConfig returns a Config seeded with every default the
// interpreter consults.
func NewConfig() *Config {
	c := make(Config)
	c.SetInt("interpreter.max_call_depth", 4096)
	c.SetBool("interpreter.trace_calls", false)
	return &c
}

// LoadDotEnv merges TEACHLANG_-prefixed environment variables (and,
// if present, a .env file loaded via godotenv) into cfg, letting
// deployments override defaults like the recursion limit without
// touching the command line.
func (c *Config) LoadDotEnv(path string) error {
	_ = godotenv.Load(path) // a missing .env file is not an error

	if v, ok := os.LookupEnv("TEACHLANG_MAX_CALL_DEPTH"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TEACHLANG_MAX_CALL_DEPTH: %w", err)
		}
		c.SetInt("interpreter.max_call_depth", n)
	}
	if v, ok := os.LookupEnv("TEACHLANG_TRACE_CALLS"); ok {
		c.SetBool("interpreter.trace_calls", v == "1" || v == "true")
	}
	return nil
}

type cfgValType int

const (
	cfgValUndefined cfgValType = iota
	cfgValBool
	cfgValInt
	cfgValString
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValUndefined: "undefined",
		cfgValBool:      "bool",
		cfgValInt:       "int",
		cfgValString:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValUndefined {
		panic(fmt.Sprintf("teachlang: can't assign %s to a %s setting", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("teachlang: can't retrieve %s from a %s setting", vt, v.typ))
	}
}

func (c *Config) SetBool(path string, v bool) {
	val := &cfgVal{}
	val.assignType(cfgValBool)
	val.asBool = v
	(*c)[path] = val
}

func (c *Config) SetInt(path string, v int) {
	val := &cfgVal{}
	val.assignType(cfgValInt)
	val.asInt = v
	(*c)[path] = val
}

func (c *Config) SetString(path string, v string) {
	val := &cfgVal{}
	val.assignType(cfgValString)
	val.asString = v
	(*c)[path] = val
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValBool)
		return val.asBool
	}
	panic(fmt.Sprintf("teachlang: bool setting %q does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValInt)
		return val.asInt
	}
	panic(fmt.Sprintf("teachlang: int setting %q does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValString)
		return val.asString
	}
	panic(fmt.Sprintf("teachlang: string setting %q does not exist", path))
}
