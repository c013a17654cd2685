// Copyright (C) 2026 Lumenforge Labs
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package model

// SystemType categorizes the system where observations are captured.
type SystemType string

// Recognized system types.
const (
	SystemTypeERP         SystemType = "ERP"
	SystemTypeMES         SystemType = "MES"
	SystemTypeWMS         SystemType = "WMS"
	SystemTypeCMMS        SystemType = "CMMS"
	SystemTypeQMS         SystemType = "QMS"
	SystemTypeSpreadsheet SystemType = "Spreadsheet"
	SystemTypeManual      SystemType = "Manual"
	SystemTypeBI          SystemType = "BI"
	SystemTypeOther       SystemType = "Other"
)

// ReliabilityLevel grades how trustworthy an observation or its source
// system is.
type ReliabilityLevel string

// Reliability levels, highest first.
const (
	ReliabilityHigh   ReliabilityLevel = "High"
	ReliabilityMedium ReliabilityLevel = "Medium"
	ReliabilityLow    ReliabilityLevel = "Low"
)

// IntegrationStatus describes how a system is connected to the data platform.
type IntegrationStatus string

// Integration statuses.
const (
	IntegrationConnected     IntegrationStatus = "Connected"
	IntegrationPlanned       IntegrationStatus = "Planned"
	IntegrationManualExtract IntegrationStatus = "Manual Extract"
	IntegrationNone          IntegrationStatus = "None"
)

// Volatility describes how an observation's value changes over time.
type Volatility string

// Volatility classes.
const (
	VolatilityPointInTime  Volatility = "Point-in-time"
	VolatilityAccumulating Volatility = "Accumulating"
	VolatilityContinuous   Volatility = "Continuous"
)

// PerspectiveLevel identifies which perspective tier a process step
// represents when a process is drilled down hierarchically.
type PerspectiveLevel string

// Perspective levels, top tier first.
const (
	LevelFinancial   PerspectiveLevel = "financial"
	LevelManagement  PerspectiveLevel = "management"
	LevelOperational PerspectiveLevel = "operational"
)

// AutomationPotential grades how automatable a process step is.
type AutomationPotential string

// Automation potential grades.
const (
	AutomationHigh   AutomationPotential = "High"
	AutomationMedium AutomationPotential = "Medium"
	AutomationLow    AutomationPotential = "Low"
	AutomationNone   AutomationPotential = "None"
)

// OntologyType identifies which kind of ontology element a semantic
// mapping refers to.
type OntologyType string

// Mappable ontology element types.
const (
	OntologyTypeEntity      OntologyType = "entity"
	OntologyTypeObservation OntologyType = "observation"
	OntologyTypeMeasure     OntologyType = "measure"
)

// SemanticType identifies the kind of semantic-model object a mapping
// points at.
type SemanticType string

// Semantic object types.
const (
	SemanticTypeTable   SemanticType = "table"
	SemanticTypeColumn  SemanticType = "column"
	SemanticTypeMeasure SemanticType = "measure"
)

// MappingStatus tracks how complete a semantic mapping is.
type MappingStatus string

// Mapping statuses.
const (
	MappingMapped  MappingStatus = "mapped"
	MappingPartial MappingStatus = "partial"
	MappingGap     MappingStatus = "gap"
)
