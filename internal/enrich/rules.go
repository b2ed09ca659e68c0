package enrich

// applyBusinessRules runs the enrichment rules over every data row of
// the formatted report.
func applyBusinessRules(rep *report, lk *lookupTables) {
	for i := range rep.rows {
		row := &rep.rows[i]
		if row.blank || row.monthHeader {
			continue
		}
		// Rows carrying neither a deal, a product nor a hedge are
		// spacing artifacts.
		if row.cells[idxVSADeal] == nil && row.cells[idxProduct] == nil && row.cells[idxHedge] == nil {
			continue
		}

		deal := normalize(cellString(row.cells[idxVSADeal]))
		product := normalize(cellString(row.cells[idxProduct]))
		hedge := normalize(cellString(row.cells[idxHedge]))

		var locked [reportColumns]bool

		// Rule 1: MIDLANDS cargoes carry no rebillable costs.
		if product == "MIDLANDS" {
			for col := idxFirstCost; col <= idxLastCost; col++ {
				row.cells[col] = 0
				locked[col] = true
			}
		}

		// Rule 2: CIF deals shipped via WHB carry no insurance.
		if deal != "" && lk.whbCIFDeals[deal] {
			if !locked[idxCIN] {
				row.cells[idxCIN] = 0
				locked[idxCIN] = true
			}
			if !locked[idxCLI] {
				row.cells[idxCLI] = 0
				locked[idxCLI] = true
			}
		}

		// Rule 3: L/C costs are the BOT + BLC totals for the deal.
		if !locked[idxLCCosts] && !cellIsZero(row.cells[idxLCCosts]) {
			if total := lk.costs[deal+",BOT"] + lk.costs[deal+",BLC"]; total != 0 {
				row.cells[idxLCCosts] = total
			}
		}

		// Rules 4 and 5: CIN / CLI insurance from the cost ledger.
		if !locked[idxCIN] && !cellIsZero(row.cells[idxCIN]) {
			if cost := lk.costs[deal+",CIN"]; cost != 0 {
				row.cells[idxCIN] = cost
			}
		}
		if !locked[idxCLI] && !cellIsZero(row.cells[idxCLI]) {
			if cost := lk.costs[deal+",CLI"]; cost != 0 {
				row.cells[idxCLI] = cost
			}
		}

		// Rule 9: load inspection is the INS + INQ + INA total.
		if !locked[idxLoadInsp] && !cellIsZero(row.cells[idxLoadInsp]) {
			total := lk.costs[deal+",INS"] + lk.costs[deal+",INQ"] + lk.costs[deal+",INA"]
			if total != 0 {
				row.cells[idxLoadInsp] = total
			}
		}

		// Rule 6: TOTAL USD = SUM(E:K).
		var total float64
		for col := idxFirstCost; col <= idxLastCost; col++ {
			if n, ok := cellNumber(row.cells[col]); ok {
				total += n
			}
		}
		row.cells[idxTotalUSD] = total

		// Rules 7 and 8: hedge comment fills.
		if hedge != "" {
			if br, ok := lk.hedgeToBR[hedge]; ok {
				row.cells[idxVSAComment] = br
			}
			if cn, ok := lk.hedgeToCN[hedge]; ok {
				row.cells[idxAdditional] = cn
			}
		}
	}
}
