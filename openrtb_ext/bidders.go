package openrtb_ext

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

type BidderName string

const (
	BidderOms       BidderName = "oms"
	BidderBrightcom BidderName = "brightcom"
)

// CoreBidderNames returns every bidder this module builds.
func CoreBidderNames() []BidderName {
	return []BidderName{
		BidderOms,
		BidderBrightcom,
	}
}

var bidderMap = map[string]BidderName{
	"oms":       BidderOms,
	"brightcom": BidderBrightcom,
}

// GetBidderName returns the BidderName for the given string, if it exists.
// The second argument is true if the name was valid, and false otherwise.
func GetBidderName(name string) (BidderName, bool) {
	bidderName, ok := bidderMap[strings.ToLower(name)]
	return bidderName, ok
}

func (name BidderName) String() string {
	return string(name)
}

// BidType describes the allowed values for bidresponse.seatbid.bid[i].ext.prebid.type
type BidType string

const (
	BidTypeBanner BidType = "banner"
)

// ParseBidType returns the BidType for a media type name.
func ParseBidType(bidType string) (BidType, error) {
	switch bidType {
	case "banner":
		return BidTypeBanner, nil
	}
	return "", fmt.Errorf("invalid BidType: %s", bidType)
}

// The BidderParamValidator is used to enforce the params of every slot a bidder is invoked for.
//
// This is treated differently from the other types because we rely on JSON-schemas to validate bidder params.
type BidderParamValidator interface {
	Validate(name BidderName, params json.RawMessage) error
	// Schema returns the JSON schema used to perform validation.
	Schema(name BidderName) string
}

// NewBidderParamsValidator makes a BidderParamValidator, assuming all the necessary files exist in the filesystem.
// This will error if, for example, a Bidder gets added but no JSON schema is written for them.
func NewBidderParamsValidator(schemaDirectory string) (BidderParamValidator, error) {
	return NewBidderParamsValidatorFS(os.DirFS(schemaDirectory), ".")
}

// NewBidderParamsValidatorFS reads the schemas from dir inside fsys.
func NewBidderParamsValidatorFS(fsys fs.FS, dir string) (BidderParamValidator, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("Failed to read JSON schemas from directory %s. %v", dir, err)
	}

	schemaFS, err := fs.Sub(fsys, dir)
	if err != nil {
		return nil, err
	}
	filesystem := http.FS(schemaFS)

	schemaContents := make(map[BidderName]string, len(entries))
	schemas := make(map[BidderName]*gojsonschema.Schema, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		bidderName := strings.TrimSuffix(entry.Name(), ".json")
		if _, isValid := GetBidderName(bidderName); !isValid {
			return nil, fmt.Errorf("File %s/%s does not match a valid BidderName.", dir, entry.Name())
		}

		schemaLoader := gojsonschema.NewReferenceLoaderFileSystem(fmt.Sprintf("file:///%s", entry.Name()), filesystem)
		loadedSchema, err := gojsonschema.NewSchema(schemaLoader)
		if err != nil {
			return nil, fmt.Errorf("Failed to load json schema at %s/%s: %v", dir, entry.Name(), err)
		}

		fileBytes, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("Failed to read file %s/%s: %v", dir, entry.Name(), err)
		}

		schemas[BidderName(bidderName)] = loadedSchema
		schemaContents[BidderName(bidderName)] = string(fileBytes)
	}

	for _, bidder := range CoreBidderNames() {
		if _, ok := schemas[bidder]; !ok {
			return nil, fmt.Errorf("No JSON schema found for bidder %s in %s", bidder, dir)
		}
	}

	return &bidderParamValidator{
		schemaContents: schemaContents,
		parsedSchemas:  schemas,
	}, nil
}

type bidderParamValidator struct {
	schemaContents map[BidderName]string
	parsedSchemas  map[BidderName]*gojsonschema.Schema
}

func (validator *bidderParamValidator) Validate(name BidderName, params json.RawMessage) error {
	schema, ok := validator.parsedSchemas[name]
	if !ok {
		return fmt.Errorf("unknown bidder %s", name)
	}
	if len(params) == 0 {
		return errors.New("params are missing")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(params))
	if err != nil {
		return err
	}
	if !result.Valid() {
		errBuilder := bytes.NewBuffer(make([]byte, 0, 300))
		for _, err := range result.Errors() {
			errBuilder.WriteString(err.String())
		}
		return errors.New(errBuilder.String())
	}
	return nil
}

func (validator *bidderParamValidator) Schema(name BidderName) string {
	return validator.schemaContents[name]
}
