// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-03-02
// Last Modified: 2026-03-06

package projects

// GraphQL documents for GitHub Projects (v2). Organization and user scopes are
// queried separately: asking for an organization with a user login fails the
// whole document.

const orgProjectByNumberQuery = `
	query($owner: String!, $number: Int!) {
		organization(login: $owner) {
			projectV2(number: $number) { id title }
		}
	}
`

const userProjectByNumberQuery = `
	query($owner: String!, $number: Int!) {
		user(login: $owner) {
			projectV2(number: $number) { id title }
		}
	}
`

const orgProjectsQuery = `
	query($owner: String!, $cursor: String, $search: String!) {
		organization(login: $owner) {
			projectsV2(first: 50, after: $cursor, query: $search) {
				nodes { id title }
				pageInfo { hasNextPage endCursor }
			}
		}
	}
`

const userProjectsQuery = `
	query($owner: String!, $cursor: String, $search: String!) {
		user(login: $owner) {
			projectsV2(first: 50, after: $cursor, query: $search) {
				nodes { id title }
				pageInfo { hasNextPage endCursor }
			}
		}
	}
`

const projectFieldsQuery = `
	query($projectId: ID!, $cursor: String) {
		node(id: $projectId) {
			... on ProjectV2 {
				fields(first: 50, after: $cursor) {
					nodes {
						... on ProjectV2FieldCommon { id name dataType }
						... on ProjectV2SingleSelectField { options { id name } }
					}
					pageInfo { hasNextPage endCursor }
				}
			}
		}
	}
`

const issueProjectItemsQuery = `
	query($owner: String!, $repo: String!, $number: Int!, $cursor: String) {
		repository(owner: $owner, name: $repo) {
			issue(number: $number) {
				projectItems(first: 50, after: $cursor) {
					nodes { id project { id } }
					pageInfo { hasNextPage endCursor }
				}
			}
		}
	}
`

const addItemMutation = `
	mutation($projectId: ID!, $contentId: ID!) {
		addProjectV2ItemById(input: { projectId: $projectId, contentId: $contentId }) {
			item { id }
		}
	}
`

const itemFieldValuesQuery = `
	query($itemId: ID!, $cursor: String) {
		node(id: $itemId) {
			... on ProjectV2Item {
				fieldValues(first: 50, after: $cursor) {
					nodes {
						... on ProjectV2ItemFieldSingleSelectValue {
							name
							field {
								... on ProjectV2SingleSelectField { id name }
							}
						}
					}
					pageInfo { hasNextPage endCursor }
				}
			}
		}
	}
`

const updateStatusMutation = `
	mutation($projectId: ID!, $itemId: ID!, $fieldId: ID!, $optionId: String!) {
		updateProjectV2ItemFieldValue(
			input: { projectId: $projectId, itemId: $itemId, fieldId: $fieldId, value: { singleSelectOptionId: $optionId } }
		) {
			projectV2Item { id }
		}
	}
`

// pageInfo is the cursor block shared by every connection.
type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type projectNode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// cursorValue maps an empty cursor to null so the first page is requested.
func cursorValue(cursor string) interface{} {
	if cursor == "" {
		return nil
	}
	return cursor
}
