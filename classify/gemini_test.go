package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContent_Strict(t *testing.T) {
	content, err := ParseContent(`{"family_info":["Sister visited"],"business_info":["Signed the contract"],"misc_info":[]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sister visited"}, content.FamilyInfo)
	assert.Equal(t, []string{"Signed the contract"}, content.BusinessInfo)
	assert.Empty(t, content.MiscInfo)
}

func TestParseContent_MarkdownFenced(t *testing.T) {
	reply := "```json\n{\"family_info\":[],\"business_info\":[],\"misc_info\":[\"Car needs an oil change\"]}\n```"
	content, err := ParseContent(reply)
	require.NoError(t, err)
	assert.Equal(t, []string{"Car needs an oil change"}, content.MiscInfo)
}

func TestParseContent_MissingFieldsBecomeEmptyLists(t *testing.T) {
	content, err := ParseContent(`{"family_info":["A"]}`)
	require.NoError(t, err)
	assert.NotNil(t, content.BusinessInfo)
	assert.NotNil(t, content.MiscInfo)
}

func TestParseContent_Malformed(t *testing.T) {
	_, err := ParseContent("I could not classify that, sorry!")
	assert.ErrorIs(t, err, ErrBadFormat)
}
