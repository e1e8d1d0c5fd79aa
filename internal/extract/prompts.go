package extract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AssistantName identifies the shared remote assistant; lookup-by-name keys
// off this string.
const AssistantName = "Insurance Submission Extractor"

// AssistantInstructions is the fixed system instruction the assistant is
// provisioned with.
const AssistantInstructions = "You are an AI assistant who is an expert in extracting data from insurance submissions which includes PDF and excel files. You are expected to extract the following information: 1. Named Insured 2. DBA Name 3. Coverage or Peril or Exposure  4. Policy InceptionDate 5. Policy ExpirationDate 6. StreetAddress, City, State, Zip, County details of the Property 7. TotalInsuredValue, OccupancyCode of the property/properties. You will find the StreetAddress, City, State, Zip, County, TotalInsuredValue and Occupancycode attributes in the tab named 'SOV APP' in the excel file. To identify the correct columns from excel files, please examine a larger section of the data (e.g., the first 20 rows) to identify where the meaningful data starts and which columns contain the information we're interested in. For TotalInsuredValue and OccupancyCode attributes, provide unique rows only."

const (
	defaultDocumentPrompt  = "Extract the following attributes from the submission: NamedInsured, DBA Name, RenewalofAccountID, Coverage or Peril or Exposure, InceptionDate, ExpirationDate"
	defaultAddressPrompt   = "Extract the following property attributes from the SOV and provide the unique rows of the attributes : StreetAddress, City, State, Zip, County"
	defaultAggregatePrompt = "Extract the following attributes from the submission: TotalInsuredValue, OccupancyCode"

	// Appended to the document prompt when validated-extraction mode is on.
	jsonModeSuffix = " Return the result as a single JSON object whose keys are named_insured, dba_name, renewal_of_account_id, coverage, inception_date and expiration_date. Return ONLY the JSON object."
)

// Prompts is the extraction prompt set. The two spreadsheet prompts stay
// separate turns on purpose: the model answers row-level and aggregate
// questions more accurately when asked one at a time.
type Prompts struct {
	Document  string `yaml:"document"`
	Address   string `yaml:"address"`
	Aggregate string `yaml:"aggregate"`
}

// DefaultPrompts returns the built-in prompt set.
func DefaultPrompts() Prompts {
	return Prompts{
		Document:  defaultDocumentPrompt,
		Address:   defaultAddressPrompt,
		Aggregate: defaultAggregatePrompt,
	}
}

// LoadPrompts merges a YAML prompt file over the defaults. Empty path returns
// the defaults unchanged; empty fields in the file keep their default.
func LoadPrompts(path string) (Prompts, error) {
	p := DefaultPrompts()
	if path == "" {
		return p, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read prompts file: %w", err)
	}
	var override Prompts
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return p, fmt.Errorf("parse prompts file: %w", err)
	}
	if override.Document != "" {
		p.Document = override.Document
	}
	if override.Address != "" {
		p.Address = override.Address
	}
	if override.Aggregate != "" {
		p.Aggregate = override.Aggregate
	}
	return p, nil
}
