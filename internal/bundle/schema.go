package bundle

import (
	"github.com/xeipuuv/gojsonschema"
)

// bundleResponseSchema is the expected shape of a 2xx ApplicationBundle
// body. A 2xx body that fails this schema is contract drift, not an empty
// valid state.
const bundleResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["applications"],
  "properties": {
    "applications": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["questions"],
        "properties": {
          "applicationId": {"type": "integer"},
          "planKey": {"type": "string"},
          "questions": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["questionId", "questionText", "possibleAnswers"],
              "properties": {
                "questionId": {"type": "integer"},
                "questionText": {"type": "string"},
                "questionType": {"type": "string"},
                "sequenceNumber": {"type": "integer"},
                "possibleAnswers": {
                  "type": "array",
                  "items": {
                    "type": "object",
                    "required": ["id", "answerText", "answerType"],
                    "properties": {
                      "id": {"type": "integer"},
                      "answerText": {"type": "string"},
                      "answerType": {"type": "string"},
                      "isKnockOut": {"type": "boolean"},
                      "errorMessage": {"type": "string"}
                    }
                  }
                },
                "condition": {
                  "type": "object",
                  "required": ["questionId", "answerId"],
                  "properties": {
                    "questionId": {"type": "integer"},
                    "answerId": {"type": "integer"}
                  }
                }
              }
            }
          }
        }
      }
    },
    "validationErrors": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "errorCode": {"type": "string"},
          "errorDetail": {"type": "string"}
        }
      }
    }
  }
}`

// validateBundleShape checks a raw 2xx body against the bundle schema and
// returns a ContractError describing the first few mismatches on failure.
func validateBundleShape(body []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(bundleResponseSchema)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &ContractError{Message: "response body is not valid JSON", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	msg := "response body failed shape validation:"
	for i, desc := range result.Errors() {
		if i == 3 {
			msg += " ..."
			break
		}
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		msg += " " + field + ": " + desc.Description() + ";"
	}
	return &ContractError{Message: msg}
}
