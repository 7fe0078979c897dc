package browser

import "test_capture/domain/entities"

// Scripts shared by both controllers. Each body ends in a return so the
// selenium driver can execute it directly; the playwright controller
// wraps it in an arrow function.

const buttonScriptBody = `
	const out = [];
	document.querySelectorAll("button, input[type='button'], input[type='submit'], a[role='button']").forEach(el => {
		const text = (el.innerText || el.value || el.getAttribute('aria-label') || '').trim();
		out.push({
			text: text,
			id: el.id || '',
			class: el.getAttribute('class') || '',
			tag: el.tagName.toLowerCase()
		});
	});
	return out;
`

const inputScriptBody = `
	const out = [];
	document.querySelectorAll('input, textarea, select').forEach(el => {
		out.push({
			type: el.getAttribute('type') || 'text',
			id: el.id || '',
			name: el.getAttribute('name') || '',
			placeholder: el.getAttribute('placeholder') || ''
		});
	});
	return out;
`

const bodyTextScriptBody = `
	return document.body ? document.body.innerText : '';
`

// parseButtons converts a script result into button descriptors,
// preserving document order
func parseButtons(result interface{}) []entities.ButtonInfo {
	items, ok := result.([]interface{})
	if !ok {
		return []entities.ButtonInfo{}
	}

	buttons := make([]entities.ButtonInfo, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		buttons = append(buttons, entities.ButtonInfo{
			Text:  getString(m, "text"),
			ID:    getString(m, "id"),
			Class: getString(m, "class"),
			Tag:   getString(m, "tag"),
		})
	}
	return buttons
}

// parseInputs converts a script result into input descriptors
func parseInputs(result interface{}) []entities.InputInfo {
	items, ok := result.([]interface{})
	if !ok {
		return []entities.InputInfo{}
	}

	inputs := make([]entities.InputInfo, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		inputs = append(inputs, entities.InputInfo{
			Type:        getString(m, "type"),
			ID:          getString(m, "id"),
			Name:        getString(m, "name"),
			Placeholder: getString(m, "placeholder"),
		})
	}
	return inputs
}

// getString - extracts string value from map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
