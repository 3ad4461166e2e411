package metadata

import (
	"strconv"
)

// TagCode is the physical label printed on an asset: AST-<category><id>.
type TagCode struct {
	init     string
	category string
	id       string
}

const Init string = "AST"

func (tag *TagCode) GenerateTagCode() string {

	return tag.init + "-" + tag.category + tag.id
}

func NewTagCode(categoryPrefix string, assetID int) TagCode {
	var code TagCode

	code.init = Init
	code.category = categoryPrefix
	code.id = strconv.Itoa(assetID)

	return code
}
