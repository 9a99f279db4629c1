package doc

// decodeFrontmatter converts a parsed block into a typed Frontmatter.
// Required fields with the wrong shape are structural errors; absent optional
// fields take the documented defaults.
func decodeFrontmatter(m Map) (Frontmatter, error) {
	fm := Frontmatter{
		Harp:  Version,
		Epoch: 1,
		Layer: LayerPublic,
	}

	if v, ok := m["harp"]; ok {
		s, ok := asString(v)
		if !ok {
			return fm, malformed("harp version must be a string")
		}
		fm.Harp = s
	}
	if v, ok := m["dyad"]; ok {
		s, ok := asString(v)
		if !ok {
			return fm, malformed("dyad must be a string")
		}
		fm.Dyad = s
	}
	if v, ok := m["epoch"]; ok {
		n, ok := asInt(v)
		if !ok || n < 1 {
			return fm, malformed("epoch must be an integer >= 1")
		}
		fm.Epoch = n
	}
	if v, ok := m["created"]; ok {
		s, ok := asString(v)
		if !ok {
			return fm, malformed("created must be a string timestamp")
		}
		fm.Created = s
	}
	if v, ok := m["updated"]; ok {
		s, ok := asString(v)
		if !ok {
			return fm, malformed("updated must be a string timestamp")
		}
		fm.Updated = s
	}
	if v, ok := m["previous"]; ok {
		switch val := v.(type) {
		case Null:
			// epoch 1: no prior content id
		case String:
			fm.Previous = string(val)
		default:
			return fm, malformed("previous must be a content id or null")
		}
	}
	if v, ok := m["layer"]; ok {
		s, ok := asString(v)
		if !ok {
			return fm, malformed("layer must be a string")
		}
		fm.Layer = Layer(s)
	}
	if v, ok := m["checksum"]; ok {
		s, ok := asString(v)
		if !ok {
			return fm, malformed("checksum must be a string")
		}
		fm.Checksum = s
	}

	entities, err := decodeEntities(m["entities"])
	if err != nil {
		return fm, err
	}
	fm.Entities = entities

	if v, ok := m["signatures"]; ok {
		sigs, err := decodeSignatures(v)
		if err != nil {
			return fm, err
		}
		fm.Signatures = sigs
	}

	return fm, nil
}

// decodeEntities enforces the exactly-two invariant on the entities list.
func decodeEntities(v Value) ([2]EntityDescriptor, error) {
	var out [2]EntityDescriptor
	list, ok := v.(List)
	if !ok {
		return out, malformed("entities must be a list of exactly two descriptors")
	}
	if len(list) != 2 {
		return out, malformed("entities must hold exactly two descriptors, got %d", len(list))
	}
	for i, elem := range list {
		entry, ok := elem.(Map)
		if !ok {
			return out, malformed("entities[%d] must be a map", i)
		}
		id, ok := asString(entry["id"])
		if !ok {
			return out, malformed("entities[%d].id must be a string", i)
		}
		typ, ok := asString(entry["type"])
		if !ok {
			return out, malformed("entities[%d].type must be a string", i)
		}
		desc := EntityDescriptor{ID: id, Type: EntityType(typ)}
		if name, ok := asString(entry["name"]); ok {
			desc.Name = name
		}
		if ercVal, ok := entry["erc8004"]; ok {
			erc, ok := ercVal.(Map)
			if !ok {
				return out, malformed("entities[%d].erc8004 must be a map", i)
			}
			chainID, okChain := asInt(erc["chainId"])
			agentID, okAgent := asInt(erc["agentId"])
			if !okChain || !okAgent {
				return out, malformed("entities[%d].erc8004 requires integer chainId and agentId", i)
			}
			desc.ERC8004 = &ERC8004Metadata{ChainID: chainID, AgentID: agentID}
		}
		out[i] = desc
	}
	return out, nil
}

// decodeSignatures reads the optional signatures list.
func decodeSignatures(v Value) ([]Signature, error) {
	list, ok := v.(List)
	if !ok {
		return nil, malformed("signatures must be a list")
	}
	sigs := make([]Signature, 0, len(list))
	for i, elem := range list {
		entry, ok := elem.(Map)
		if !ok {
			return nil, malformed("signatures[%d] must be a map", i)
		}
		var sig Signature
		sig.Entity, _ = asString(entry["entity"])
		sig.Sig, _ = asString(entry["sig"])
		sig.Scheme, _ = asString(entry["scheme"])
		sigs = append(sigs, sig)
	}
	return sigs, nil
}

// decodeMeta converts a parsed metadata block into a SectionMeta. Known keys
// with the expected shape become typed fields; everything else, including a
// known key with an unexpected shape, lands in Extra so it still round-trips.
func decodeMeta(m Map) *SectionMeta {
	meta := &SectionMeta{}
	for key, v := range m {
		switch key {
		case "timestamp":
			if s, ok := scalarText(v); ok {
				meta.Timestamp = s
				continue
			}
		case "author":
			if s, ok := scalarText(v); ok {
				meta.Author = s
				continue
			}
		case "tags":
			if tags, ok := asStringList(v); ok {
				meta.Tags = tags
				continue
			}
		case "status":
			if s, ok := scalarText(v); ok {
				meta.Status = TensionStatus(s)
				continue
			}
		case "resolution":
			if s, ok := scalarText(v); ok {
				meta.Resolution = s
				continue
			}
		case "acknowledged_by":
			if s, ok := scalarText(v); ok {
				meta.AcknowledgedBy = s
				continue
			}
		case "demonstrated_in":
			if refs, ok := asStringList(v); ok {
				meta.DemonstratedIn = refs
				continue
			}
		case "references":
			if refs, ok := decodeReferences(v); ok {
				meta.References = refs
				continue
			}
		case "evidence":
			if evs, ok := decodeEvidence(v); ok {
				meta.Evidence = evs
				continue
			}
		case "payment":
			if p, ok := decodePayment(v); ok {
				meta.Payment = p
				continue
			}
		case "platform":
			if s, ok := scalarText(v); ok {
				meta.Platform = s
				continue
			}
		}
		if meta.Extra == nil {
			meta.Extra = Map{}
		}
		meta.Extra[key] = v
	}
	return meta
}

func decodeReferences(v Value) ([]Reference, bool) {
	list, ok := v.(List)
	if !ok {
		return nil, false
	}
	refs := make([]Reference, 0, len(list))
	for _, elem := range list {
		entry, ok := elem.(Map)
		if !ok {
			return nil, false
		}
		refs = append(refs, decodeReference(entry))
	}
	return refs, true
}

func decodeReference(entry Map) Reference {
	var ref Reference
	for key, v := range entry {
		switch key {
		case "type":
			if s, ok := scalarText(v); ok {
				ref.Type = s
				continue
			}
		case "id":
			if s, ok := scalarText(v); ok {
				ref.ID = s
				continue
			}
		case "tx":
			if s, ok := scalarText(v); ok {
				ref.Tx = s
				continue
			}
		case "amount":
			if s, ok := scalarText(v); ok {
				ref.Amount = s
				continue
			}
		}
		if ref.Extra == nil {
			ref.Extra = Map{}
		}
		ref.Extra[key] = v
	}
	return ref
}

func decodeEvidence(v Value) ([]Evidence, bool) {
	list, ok := v.(List)
	if !ok {
		return nil, false
	}
	evs := make([]Evidence, 0, len(list))
	for _, elem := range list {
		entry, ok := elem.(Map)
		if !ok {
			return nil, false
		}
		if refStr, ok := scalarText(entry["interaction_ref"]); ok && refStr != "" {
			evs = append(evs, Evidence{InteractionRef: refStr})
			continue
		}
		ref := decodeReference(entry)
		evs = append(evs, Evidence{Ref: &ref})
	}
	return evs, true
}

func decodePayment(v Value) (*Payment, bool) {
	entry, ok := v.(Map)
	if !ok {
		return nil, false
	}
	var p Payment
	p.Amount, _ = scalarText(entry["amount"])
	p.Tx, _ = scalarText(entry["tx"])
	p.Purpose, _ = scalarText(entry["purpose"])
	return &p, true
}
