// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package ldp

// Namespace IRIs of the vocabularies used by the server.
const (
	RDFNamespace     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNamespace     = "http://www.w3.org/2001/XMLSchema#"
	LDPNamespace     = "http://www.w3.org/ns/ldp#"
	TrellisNamespace = "http://www.trellisldp.org/ns/trellis#"
	ACLNamespace     = "http://www.w3.org/ns/auth/acl#"
	DCNamespace      = "http://purl.org/dc/terms/"
	PROVNamespace    = "http://www.w3.org/ns/prov#"
	ASNamespace      = "https://www.w3.org/ns/activitystreams#"
	MementoNamespace = "http://mementoweb.org/ns#"
	OANamespace      = "http://www.w3.org/ns/oa#"
	FOAFNamespace    = "http://xmlns.com/foaf/0.1/"
)

// TrellisPrefix is the scheme of internal resource identifiers.
const TrellisPrefix = "trellis:"

// RDF holds terms from the RDF syntax vocabulary.
var RDF = struct {
	Type, LangString, First, Rest, Nil IRI
}{
	Type:       RDFNamespace + "type",
	LangString: RDFNamespace + "langString",
	First:      RDFNamespace + "first",
	Rest:       RDFNamespace + "rest",
	Nil:        RDFNamespace + "nil",
}

// XSD holds the XML Schema datatypes the server produces or
// recognizes in literal syntax.
var XSD = struct {
	String, Boolean, Integer, Decimal, Double, Long, DateTime IRI
}{
	String:   XSDNamespace + "string",
	Boolean:  XSDNamespace + "boolean",
	Integer:  XSDNamespace + "integer",
	Decimal:  XSDNamespace + "decimal",
	Double:   XSDNamespace + "double",
	Long:     XSDNamespace + "long",
	DateTime: XSDNamespace + "dateTime",
}

// LDP holds the Linked Data Platform vocabulary: interaction models,
// containment and membership predicates, and preference IRIs.
var LDP = struct {
	Resource, RDFSource, NonRDFSource IRI
	Container, BasicContainer         IRI
	DirectContainer                   IRI
	IndirectContainer                 IRI

	Contains, Member, MembershipResource IRI
	HasMemberRelation                    IRI
	IsMemberOfRelation                   IRI
	InsertedContentRelation              IRI
	Inbox, ConstrainedBy                 IRI

	PreferContainment, PreferMembership IRI
	PreferMinimalContainer              IRI
}{
	Resource:          LDPNamespace + "Resource",
	RDFSource:         LDPNamespace + "RDFSource",
	NonRDFSource:      LDPNamespace + "NonRDFSource",
	Container:         LDPNamespace + "Container",
	BasicContainer:    LDPNamespace + "BasicContainer",
	DirectContainer:   LDPNamespace + "DirectContainer",
	IndirectContainer: LDPNamespace + "IndirectContainer",

	Contains:                LDPNamespace + "contains",
	Member:                  LDPNamespace + "member",
	MembershipResource:      LDPNamespace + "membershipResource",
	HasMemberRelation:       LDPNamespace + "hasMemberRelation",
	IsMemberOfRelation:      LDPNamespace + "isMemberOfRelation",
	InsertedContentRelation: LDPNamespace + "insertedContentRelation",
	Inbox:                   LDPNamespace + "inbox",
	ConstrainedBy:           LDPNamespace + "constrainedBy",

	PreferContainment:      LDPNamespace + "PreferContainment",
	PreferMembership:       LDPNamespace + "PreferMembership",
	PreferMinimalContainer: LDPNamespace + "PreferMinimalContainer",
}

// Trellis holds server-specific terms: the named graphs a resource is
// stored in, the anonymous agent, tombstones and constraint failures.
var Trellis = struct {
	PreferUserManaged, PreferServerManaged IRI
	PreferAccessControl, PreferAudit       IRI

	AnonymousUser, AdministratorAgent IRI
	DeletedResource                   IRI

	InvalidType, InvalidProperty     IRI
	InvalidRange, InvalidCardinality IRI
}{
	PreferUserManaged:   TrellisNamespace + "PreferUserManaged",
	PreferServerManaged: TrellisNamespace + "PreferServerManaged",
	PreferAccessControl: TrellisNamespace + "PreferAccessControl",
	PreferAudit:         TrellisNamespace + "PreferAudit",

	AnonymousUser:      TrellisNamespace + "AnonymousUser",
	AdministratorAgent: TrellisNamespace + "AdministratorAgent",
	DeletedResource:    TrellisNamespace + "DeletedResource",

	InvalidType:        TrellisNamespace + "InvalidType",
	InvalidProperty:    TrellisNamespace + "InvalidProperty",
	InvalidRange:       TrellisNamespace + "InvalidRange",
	InvalidCardinality: TrellisNamespace + "InvalidCardinality",
}

// ACL holds the WebAC vocabulary.
var ACL = struct {
	Read, Write, Append, Control  IRI
	Authorization                 IRI
	Mode, Agent, AgentClass       IRI
	AgentGroup, AccessTo, Default IRI
	AuthenticatedAgent            IRI
}{
	Read:               ACLNamespace + "Read",
	Write:              ACLNamespace + "Write",
	Append:             ACLNamespace + "Append",
	Control:            ACLNamespace + "Control",
	Authorization:      ACLNamespace + "Authorization",
	Mode:               ACLNamespace + "mode",
	Agent:              ACLNamespace + "agent",
	AgentClass:         ACLNamespace + "agentClass",
	AgentGroup:         ACLNamespace + "agentGroup",
	AccessTo:           ACLNamespace + "accessTo",
	Default:            ACLNamespace + "default",
	AuthenticatedAgent: ACLNamespace + "AuthenticatedAgent",
}

// DC holds the Dublin Core terms used for binary descriptions and
// containment.
var DC = struct {
	Title, Creator, Modified IRI
	HasPart, IsPartOf        IRI
	Format, Extent           IRI
}{
	Title:    DCNamespace + "title",
	Creator:  DCNamespace + "creator",
	Modified: DCNamespace + "modified",
	HasPart:  DCNamespace + "hasPart",
	IsPartOf: DCNamespace + "isPartOf",
	Format:   DCNamespace + "format",
	Extent:   DCNamespace + "extent",
}

// PROV holds the provenance terms used in audit quads.
var PROV = struct {
	Activity, WasGeneratedBy, WasAssociatedWith IRI
	ActedOnBehalfOf, AtTime                     IRI
}{
	Activity:          PROVNamespace + "Activity",
	WasGeneratedBy:    PROVNamespace + "wasGeneratedBy",
	WasAssociatedWith: PROVNamespace + "wasAssociatedWith",
	ActedOnBehalfOf:   PROVNamespace + "actedOnBehalfOf",
	AtTime:            PROVNamespace + "atTime",
}

// AS holds the ActivityStreams activity types.
var AS = struct {
	Create, Update, Delete IRI
}{
	Create: ASNamespace + "Create",
	Update: ASNamespace + "Update",
	Delete: ASNamespace + "Delete",
}

// Memento holds the terms used to describe a TimeMap in RDF.
var Memento = struct {
	Memento, TimeMap, OriginalResource IRI
	Original, TimeGate, TimeMapRel     IRI
	MementoRel, MementoDatetime        IRI
}{
	Memento:          MementoNamespace + "Memento",
	TimeMap:          MementoNamespace + "TimeMap",
	OriginalResource: MementoNamespace + "OriginalResource",
	Original:         MementoNamespace + "original",
	TimeGate:         MementoNamespace + "timegate",
	TimeMapRel:       MementoNamespace + "timemap",
	MementoRel:       MementoNamespace + "memento",
	MementoDatetime:  MementoNamespace + "mementoDatetime",
}

// OA holds the Web Annotation terms the server links to.
var OA = struct {
	AnnotationService IRI
}{
	AnnotationService: OANamespace + "annotationService",
}

// FOAF holds the FOAF terms used by WebAC agent classes.
var FOAF = struct {
	Agent IRI
}{
	Agent: FOAFNamespace + "Agent",
}
